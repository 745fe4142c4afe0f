// Package cache provides the in-process rate table cache shared by
// concurrent requests.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/fintrackr/fintrackr/pkg/currency"
)

// RateCache is a concurrency-safe map of day-keyed rate tables. Keys
// embed the UTC calendar date, so entries go stale by key rollover at
// midnight rather than by an eviction thread. Losing a race to
// populate the same key twice is harmless: the overwrite is idempotent.
type RateCache struct {
	mu     sync.RWMutex
	tables map[string]currency.RateTable
}

// NewRateCache creates an empty cache. Lifecycle is tied to the
// process; a restart clears it.
func NewRateCache() *RateCache {
	return &RateCache{tables: make(map[string]currency.RateTable)}
}

// Key builds the cache key for a base currency on a calendar date.
func Key(base currency.Code, date string) string {
	return fmt.Sprintf("rates:%s:%s", base, date)
}

// Today returns the current UTC calendar date in YYYY-MM-DD form.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// Get returns the cached table for key, or nil when absent. The
// returned table is a copy so callers cannot mutate shared state.
func (c *RateCache) Get(key string) currency.RateTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	table, ok := c.tables[key]
	if !ok {
		return nil
	}
	return table.Clone()
}

// Set stores a copy of the table under key.
func (c *RateCache) Set(key string, table currency.RateTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[key] = table.Clone()
}
