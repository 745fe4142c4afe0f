package transaction

import "time"

// Named relative date ranges accepted by the list endpoint.
const (
	FilterToday       = "today"
	FilterLast7Days   = "last7days"
	FilterLast30Days  = "last30days"
	FilterLast3Months = "last3months"
	FilterYearToDate  = "yeartodate"
)

const dateLayout = "2006-01-02"

// ResolveWindow maps a named filter to an inclusive [start, end]
// calendar window anchored at UTC midnight of now. Unrecognized names
// return ok=false and no window; the caller logs and proceeds
// unfiltered rather than failing the request.
func ResolveWindow(filterBy string, now time.Time) (start, end string, ok bool) {
	today := now.UTC().Truncate(24 * time.Hour)
	end = today.Format(dateLayout)

	switch filterBy {
	case FilterToday:
		return end, end, true
	case FilterLast7Days:
		return today.AddDate(0, 0, -6).Format(dateLayout), end, true
	case FilterLast30Days:
		return today.AddDate(0, 0, -29).Format(dateLayout), end, true
	case FilterLast3Months:
		return today.AddDate(0, -3, 0).Format(dateLayout), end, true
	case FilterYearToDate:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC).Format(dateLayout), end, true
	default:
		return "", "", false
	}
}
