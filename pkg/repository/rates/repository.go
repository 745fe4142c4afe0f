// Package rates defines the persistence contract for daily exchange
// rate snapshots.
package rates

import (
	"context"

	"github.com/fintrackr/fintrackr/pkg/currency"
)

// Snapshot is a dated rate table relative to one base currency. One
// snapshot exists per (base, date); writes use upsert semantics.
type Snapshot struct {
	Base  currency.Code
	Date  string // YYYY-MM-DD, UTC calendar day
	Rates currency.RateTable
}

// Repository persists rate snapshots. Lookup misses return
// domain.ErrNotFound.
type Repository interface {
	// GetForDate returns the snapshot for an exact (base, date) key.
	GetForDate(ctx context.Context, base currency.Code, date string) (*Snapshot, error)

	// GetLatest returns the most recent snapshot for base, any date.
	GetLatest(ctx context.Context, base currency.Code) (*Snapshot, error)

	// Upsert stores the snapshot, overwriting a same-day entry.
	Upsert(ctx context.Context, snapshot *Snapshot) error
}
