package rates

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/fintrackr/fintrackr/pkg/currency"
	"github.com/fintrackr/fintrackr/pkg/domain"
	ratesrepo "github.com/fintrackr/fintrackr/pkg/repository/rates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	tables map[string]currency.RateTable
}

func newFakeCache() *fakeCache {
	return &fakeCache{tables: make(map[string]currency.RateTable)}
}

func (c *fakeCache) Get(key string) currency.RateTable { return c.tables[key] }
func (c *fakeCache) Set(key string, t currency.RateTable) {
	c.tables[key] = t.Clone()
}

type fakeRepo struct {
	snapshots map[string]*ratesrepo.Snapshot // keyed base:date
	latest    map[currency.Code]*ratesrepo.Snapshot
	upserts   []*ratesrepo.Snapshot
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		snapshots: make(map[string]*ratesrepo.Snapshot),
		latest:    make(map[currency.Code]*ratesrepo.Snapshot),
	}
}

func (r *fakeRepo) GetForDate(_ context.Context, base currency.Code, date string) (*ratesrepo.Snapshot, error) {
	if snap, ok := r.snapshots[fmt.Sprintf("%s:%s", base, date)]; ok {
		return snap, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) GetLatest(_ context.Context, base currency.Code) (*ratesrepo.Snapshot, error) {
	if snap, ok := r.latest[base]; ok {
		return snap, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) Upsert(_ context.Context, snap *ratesrepo.Snapshot) error {
	r.upserts = append(r.upserts, snap)
	return nil
}

type fakeFetcher struct {
	table currency.RateTable
	err   error
	noKey bool
	calls int
}

func (f *fakeFetcher) HasCredentials() bool { return !f.noKey }
func (f *fakeFetcher) FetchUSDRates(context.Context) (currency.RateTable, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.table.Clone(), nil
}

func newService(cache Cache, repo ratesrepo.Repository, fetcher Fetcher) *Service {
	svc := New(cache, repo, fetcher, slog.Default())
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

const today = "2026-08-28"

func TestGetRatesCacheHit(t *testing.T) {
	cache := newFakeCache()
	cache.Set("rates:USD:"+today, currency.RateTable{currency.USD: 1, currency.EUR: 0.5})
	fetcher := &fakeFetcher{}
	svc := newService(cache, newFakeRepo(), fetcher)

	table := svc.GetRates(context.Background(), currency.USD)
	assert.Equal(t, 0.5, table[currency.EUR])
	assert.Zero(t, fetcher.calls, "cache hit must not reach the live source")
}

func TestGetRatesFromTodaysSnapshot(t *testing.T) {
	repo := newFakeRepo()
	repo.snapshots["USD:"+today] = &ratesrepo.Snapshot{
		Base: currency.USD, Date: today,
		Rates: currency.RateTable{currency.USD: 1, currency.EUR: 0.91},
	}
	cache := newFakeCache()
	fetcher := &fakeFetcher{}
	svc := newService(cache, repo, fetcher)

	table := svc.GetRates(context.Background(), currency.USD)

	assert.Equal(t, 0.91, table[currency.EUR])
	// Gaps are filled from fallback so all seven codes are present.
	for _, c := range currency.Supported() {
		assert.NotZero(t, table[c], "missing %s", c)
	}
	assert.Zero(t, fetcher.calls)
	// The supplemented table lands in the cache but is not re-persisted.
	assert.NotNil(t, cache.Get("rates:USD:"+today))
	assert.Empty(t, repo.upserts)
}

func TestGetRatesLiveFetchPersistsAndCaches(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	fetcher := &fakeFetcher{table: currency.RateTable{
		currency.USD: 1, currency.EUR: 0.93, currency.GBP: 0.79,
		currency.TND: 3.05, currency.JPY: 147, currency.CAD: 1.38, currency.AUD: 1.52,
	}}
	svc := newService(cache, repo, fetcher)

	table := svc.GetRates(context.Background(), currency.USD)

	assert.Equal(t, 0.93, table[currency.EUR])
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, today, repo.upserts[0].Date)
	assert.NotNil(t, cache.Get("rates:USD:"+today))
}

func TestGetRatesRebasesNonUSD(t *testing.T) {
	fetcher := &fakeFetcher{table: currency.RateTable{
		currency.USD: 1, currency.EUR: 0.92, currency.GBP: 0.78,
		currency.TND: 3.1, currency.JPY: 146.5, currency.CAD: 1.39, currency.AUD: 1.54,
	}}
	svc := newService(newFakeCache(), newFakeRepo(), fetcher)

	table := svc.GetRates(context.Background(), currency.EUR)

	// Base rate is forced to exactly 1 after rebasing.
	assert.Equal(t, float64(1), table[currency.EUR])
	assert.InDelta(t, 1/0.92, table[currency.USD], 1e-9)
	assert.InDelta(t, 0.78/0.92, table[currency.GBP], 1e-9)
}

func TestGetRatesRebaseFailsWhenBaseAbsent(t *testing.T) {
	repo := newFakeRepo()
	// Live response lacks TND entirely; the fetch must fail as a whole
	// and fall back to the latest snapshot.
	fetcher := &fakeFetcher{table: currency.RateTable{currency.USD: 1, currency.EUR: 0.92}}
	repo.latest[currency.TND] = &ratesrepo.Snapshot{
		Base: currency.TND, Date: "2026-08-20",
		Rates: currency.RateTable{currency.TND: 1, currency.USD: 0.32},
	}
	svc := newService(newFakeCache(), repo, fetcher)

	table := svc.GetRates(context.Background(), currency.TND)

	assert.Equal(t, 0.32, table[currency.USD])
	assert.Equal(t, 1, fetcher.calls)
	assert.Empty(t, repo.upserts, "failed fetch must not be persisted")
}

func TestGetRatesFallsBackToLatestSnapshotOnFetchError(t *testing.T) {
	repo := newFakeRepo()
	repo.latest[currency.USD] = &ratesrepo.Snapshot{
		Base: currency.USD, Date: "2026-08-25",
		Rates: currency.RateTable{currency.USD: 1, currency.EUR: 0.90},
	}
	fetcher := &fakeFetcher{err: domain.ErrUpstream}
	svc := newService(newFakeCache(), repo, fetcher)

	table := svc.GetRates(context.Background(), currency.USD)
	assert.Equal(t, 0.90, table[currency.EUR])
}

func TestGetRatesNoKeySkipsLiveFetch(t *testing.T) {
	fetcher := &fakeFetcher{noKey: true}
	svc := newService(newFakeCache(), newFakeRepo(), fetcher)

	table := svc.GetRates(context.Background(), currency.USD)

	assert.Zero(t, fetcher.calls)
	assert.Equal(t, currency.FallbackRates(), table)
}

func TestGetRatesAlwaysReturnsAllSupportedCodes(t *testing.T) {
	// Partial data everywhere: snapshot and live response both
	// incomplete. Every tier still yields a full table.
	testCases := []struct {
		desc    string
		prepare func(*fakeRepo, *fakeFetcher)
	}{
		{
			desc: "partial snapshot",
			prepare: func(r *fakeRepo, f *fakeFetcher) {
				r.snapshots["USD:"+today] = &ratesrepo.Snapshot{
					Base: currency.USD, Date: today,
					Rates: currency.RateTable{currency.USD: 1},
				}
			},
		},
		{
			desc: "partial live response",
			prepare: func(r *fakeRepo, f *fakeFetcher) {
				f.table = currency.RateTable{currency.USD: 1, currency.EUR: 0.93}
			},
		},
		{
			desc:    "nothing anywhere",
			prepare: func(r *fakeRepo, f *fakeFetcher) { f.err = domain.ErrUpstream },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			repo := newFakeRepo()
			fetcher := &fakeFetcher{}
			tc.prepare(repo, fetcher)
			svc := newService(newFakeCache(), repo, fetcher)

			table := svc.GetRates(context.Background(), currency.USD)
			for _, c := range currency.Supported() {
				assert.NotZero(t, table[c], "%s: missing %s", tc.desc, c)
			}
		})
	}
}
