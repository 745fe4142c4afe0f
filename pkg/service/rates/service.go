// Package rates resolves daily exchange rate tables with a multi-tier
// fallback strategy: in-process cache, persisted snapshot, live source,
// most recent snapshot, static fallback.
package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	ratesrepo "github.com/fintrackr/fintrackr/pkg/repository/rates"
)

// Cache is the in-process day-keyed rate table cache.
type Cache interface {
	Get(key string) currency.RateTable
	Set(key string, table currency.RateTable)
}

// Fetcher is the live external rate source. The source only serves
// USD-based tables.
type Fetcher interface {
	HasCredentials() bool
	FetchUSDRates(ctx context.Context) (currency.RateTable, error)
}

// Service resolves rate tables for a base currency. GetRates never
// fails: every tier that comes up short falls through to the next, and
// the static fallback table is always available. Degraded quality is
// logged, not returned.
type Service struct {
	cache  Cache
	repo   ratesrepo.Repository
	source Fetcher
	logger *slog.Logger
	now    func() time.Time
}

// New creates a rate service.
func New(cache Cache, repo ratesrepo.Repository, source Fetcher, logger *slog.Logger) *Service {
	return &Service{
		cache:  cache,
		repo:   repo,
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// GetRates returns today's rate table for base, containing every
// supported currency code.
func (s *Service) GetRates(ctx context.Context, base currency.Code) currency.RateTable {
	today := s.now().UTC().Format("2006-01-02")
	cacheKey := fmt.Sprintf("rates:%s:%s", base, today)

	// Tier 1: in-process cache. Keys embed the UTC date, so yesterday's
	// entries are simply never read again.
	if table := s.cache.Get(cacheKey); table != nil {
		return table
	}

	// Tier 2: today's persisted snapshot.
	if snap, err := s.repo.GetForDate(ctx, base, today); err == nil {
		table := snap.Rates.Clone()
		if filled := table.Supplement(); len(filled) > 0 {
			s.logger.Warn("Persisted snapshot missing rates, supplemented from fallback",
				"base", base, "date", today, "filled", filled)
		}
		s.cache.Set(cacheKey, table)
		return table
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("Failed to read persisted rate snapshot", "base", base, "error", err)
	}

	// Tier 3: live fetch.
	if s.source.HasCredentials() {
		table, err := s.fetchLive(ctx, base)
		if err == nil {
			s.persist(ctx, base, today, table)
			s.cache.Set(cacheKey, table)
			return table
		}
		s.logger.Error("Live rate fetch failed, falling back to last snapshot",
			"base", base, "error", err)
	} else {
		s.logger.Warn("Exchange rate API key is missing, skipping live fetch", "base", base)
	}

	// Tier 4: most recent persisted snapshot, any date.
	if snap, err := s.repo.GetLatest(ctx, base); err == nil {
		table := snap.Rates.Clone()
		if filled := table.Supplement(); len(filled) > 0 {
			s.logger.Warn("Stale snapshot missing rates, supplemented from fallback",
				"base", base, "snapshot_date", snap.Date, "filled", filled)
		}
		s.logger.Warn("Serving stale rate snapshot", "base", base, "snapshot_date", snap.Date)
		s.cache.Set(cacheKey, table)
		return table
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("Failed to read latest rate snapshot", "base", base, "error", err)
	}

	// Tier 5: static fallback.
	s.logger.Warn("No live or persisted rates available, using static fallback", "base", base)
	table := currency.FallbackRates()
	s.cache.Set(cacheKey, table)
	return table
}

// fetchLive pulls the USD table from the source and rebases it when
// another base is requested. The whole fetch fails when the requested
// base is absent from the response.
func (s *Service) fetchLive(ctx context.Context, base currency.Code) (currency.RateTable, error) {
	usdTable, err := s.source.FetchUSDRates(ctx)
	if err != nil {
		return nil, err
	}

	table := usdTable
	if base != currency.USD {
		baseRate := usdTable[base]
		if baseRate == 0 {
			return nil, fmt.Errorf("%w: base currency %s not in response", domain.ErrUpstream, base)
		}
		table = make(currency.RateTable, len(usdTable))
		for code, rate := range usdTable {
			table[code] = rate / baseRate
		}
		// Exactly 1, not 0.9999...: dividing the base by itself must
		// not leave floating point drift behind.
		table[base] = 1
	}

	if filled := table.Supplement(); len(filled) > 0 {
		s.logger.Warn("Live response missing rates, supplemented from fallback",
			"base", base, "filled", filled)
	}
	return table, nil
}

func (s *Service) persist(ctx context.Context, base currency.Code, date string, table currency.RateTable) {
	err := s.repo.Upsert(ctx, &ratesrepo.Snapshot{Base: base, Date: date, Rates: table})
	if err != nil {
		// Persistence is an optimization; the caller still gets rates.
		s.logger.Error("Failed to persist rate snapshot", "base", base, "date", date, "error", err)
	}
}
