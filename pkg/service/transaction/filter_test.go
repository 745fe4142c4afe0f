package transaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveWindow(t *testing.T) {
	// Fixed anchor, mid-afternoon UTC to prove midnight anchoring.
	now := time.Date(2026, 8, 28, 15, 42, 7, 0, time.UTC)

	testCases := []struct {
		filterBy  string
		wantStart string
		wantEnd   string
		wantOK    bool
	}{
		{FilterToday, "2026-08-28", "2026-08-28", true},
		{FilterLast7Days, "2026-08-22", "2026-08-28", true}, // inclusive 7-day window
		{FilterLast30Days, "2026-07-30", "2026-08-28", true},
		{FilterLast3Months, "2026-05-28", "2026-08-28", true},
		{FilterYearToDate, "2026-01-01", "2026-08-28", true},
		{"lastcentury", "", "", false},
		{"", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.filterBy, func(t *testing.T) {
			start, end, ok := ResolveWindow(tc.filterBy, now)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}

func TestResolveWindowSpansDays(t *testing.T) {
	// The 7-day window covers exactly 7 calendar days including today.
	now := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	start, end, ok := ResolveWindow(FilterLast7Days, now)
	assert.True(t, ok)
	assert.Equal(t, "2026-02-25", start)
	assert.Equal(t, "2026-03-03", end)
}
