package catalog

import (
	"github.com/shopspring/decimal"
)

// SortKey identifies one of the supported catalog orderings.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
	SortName      SortKey = "name"
)

// ParseSortKey maps a raw sort value to a SortKey. Unknown values fall back
// to SortNewest; malformed filter input is never an error.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortPriceAsc, SortPriceDesc, SortRating, SortName:
		return SortKey(raw)
	default:
		return SortNewest
	}
}

// Criteria is the combined set of search/filter/sort/pagination parameters
// driving one catalog view. It is the single source of truth for a browsing
// session: callers thread it through every engine call instead of keeping
// filter state in globals.
type Criteria struct {
	SearchTerm    string
	BrandSlugs    []string
	CategorySlugs []string
	PriceMin      *decimal.Decimal
	PriceMax      *decimal.Decimal
	Sort          SortKey
	Page          int
	PageSize      int
}

// NewCriteria returns criteria with defaults: no filters, newest first,
// first page of the given size.
func NewCriteria(pageSize int) Criteria {
	return Criteria{
		Sort:     SortNewest,
		Page:     1,
		PageSize: pageSize,
	}
}
