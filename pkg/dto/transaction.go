package dto

// ListFilter narrows a transaction listing. Zero values mean "no
// constraint". Category is a substring match and is only applied when
// it has at least MinCategoryFilterLen characters; shorter inputs are
// ignored to keep matches from being overly broad (and to keep the
// ILIKE pattern index-friendly on large tables).
type ListFilter struct {
	Category  string
	Type      string
	StartDate string // inclusive, YYYY-MM-DD
	EndDate   string // inclusive, YYYY-MM-DD
}

// MinCategoryFilterLen is the minimum category substring length before
// the filter is applied.
const MinCategoryFilterLen = 3

// Page describes optional pagination. When either field is nil the
// whole filtered set is returned as a single page.
type Page struct {
	Number *int
	Limit  *int
}

// Paginated reports whether both page number and limit are present.
func (p Page) Paginated() bool {
	return p.Number != nil && p.Limit != nil
}
