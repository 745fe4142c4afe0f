package user

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/fintrackr/fintrackr/pkg/currency"
	txrepo "github.com/fintrackr/fintrackr/pkg/repository/transaction"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// RateSource supplies today's rate table for a base currency.
type RateSource interface {
	GetRates(ctx context.Context, base currency.Code) currency.RateTable
}

// MigrationReport counts the outcome of a re-normalization run. Skipped
// rows kept their previous normalized amount because a rate was
// missing.
type MigrationReport struct {
	Migrated int
	Skipped  int
}

// PreferenceMigrator recomputes the normalized amount of every stored
// transaction after a preferred currency change. One rate table is
// fetched up front and shared across rows; per-row writes run with
// bounded concurrency.
type PreferenceMigrator struct {
	txs     txrepo.Repository
	rates   RateSource
	workers int
	logger  *slog.Logger
}

// NewPreferenceMigrator creates a migrator running at most workers
// concurrent row updates.
func NewPreferenceMigrator(txs txrepo.Repository, rates RateSource, workers int, logger *slog.Logger) *PreferenceMigrator {
	if workers < 1 {
		workers = 1
	}
	return &PreferenceMigrator{txs: txs, rates: rates, workers: workers, logger: logger}
}

// Migrate converts every transaction's original amount into preferred
// at today's rates. Rows whose currency pair cannot be converted are
// skipped and keep their stale normalized amount; any write error
// aborts the run.
func (m *PreferenceMigrator) Migrate(ctx context.Context, userID uuid.UUID, preferred currency.Code) (*MigrationReport, error) {
	txs, err := m.txs.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return &MigrationReport{}, nil
	}

	table := m.rates.GetRates(ctx, currency.USD)

	var migrated, skipped atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, tx := range txs {
		g.Go(func() error {
			converted, err := currency.Convert(tx.Amount, tx.Currency, preferred, table)
			if errors.Is(err, currency.ErrConversion) {
				m.logger.Warn("Missing rate, skipping transaction",
					"transaction_id", tx.ID, "from", tx.Currency, "to", preferred)
				skipped.Add(1)
				return nil
			}
			if err != nil {
				return err
			}
			if err := m.txs.UpdateNormalizedAmount(ctx, tx.ID, currency.RoundStored(converted)); err != nil {
				return err
			}
			migrated.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &MigrationReport{
		Migrated: int(migrated.Load()),
		Skipped:  int(skipped.Load()),
	}, nil
}
