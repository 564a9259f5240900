package catalog

import (
	"errors"
	"sort"
	"strings"

	"diecast-store/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrInvalidCriteria = errors.New("page and page size must be positive")
)

// Result is the engine output for one catalog view: the requested page, the
// total number of products matching the filters before pagination, and the
// canonical query string for the active non-default criteria.
type Result struct {
	Items         []domain.Product
	TotalMatching int
	QueryString   string
}

// Apply filters, sorts and paginates a working set of denormalized products
// according to the given criteria. It is a pure function: the input slice is
// never mutated and no state is shared between calls.
//
// Filters are conjunctive and commutative; they are all applied before
// sorting. A page past the end of the result set yields an empty page, not
// an error. Structurally invalid pagination (page or page size <= 0) is
// rejected with ErrInvalidCriteria rather than clamped, so that page math
// stays well-defined.
func Apply(products []domain.Product, c Criteria) (Result, error) {
	if c.Page <= 0 || c.PageSize <= 0 {
		return Result{}, ErrInvalidCriteria
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesSearch(&p, c.SearchTerm) &&
			matchesSlugs(p.Brand.Slug, c.BrandSlugs) &&
			matchesSlugs(p.Category.Slug, c.CategorySlugs) &&
			matchesPriceRange(&p, c) {
			filtered = append(filtered, p)
		}
	}

	sortProducts(filtered, c.Sort)

	return Result{
		Items:         pageSlice(filtered, c.Page, c.PageSize),
		TotalMatching: len(filtered),
		QueryString:   Encode(c),
	}, nil
}

// matchesSearch is a case-insensitive substring match against the product
// name, description and brand name; any single field match passes.
func matchesSearch(p *domain.Product, term string) bool {
	if term == "" {
		return true
	}

	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Brand.Name), needle)
}

// matchesSlugs passes when the slug set is empty or contains the slug.
func matchesSlugs(slug string, slugs []string) bool {
	if len(slugs) == 0 {
		return true
	}

	for _, s := range slugs {
		if s == slug {
			return true
		}
	}
	return false
}

// matchesPriceRange applies inclusive bounds; an absent bound is unbounded.
func matchesPriceRange(p *domain.Product, c Criteria) bool {
	if c.PriceMin != nil && p.Price.LessThan(*c.PriceMin) {
		return false
	}
	if c.PriceMax != nil && p.Price.GreaterThan(*c.PriceMax) {
		return false
	}
	return true
}

// sortProducts orders the slice in place by the given key. Every ordering
// breaks ties by id ascending so the result is a deterministic total order.
func sortProducts(products []domain.Product, key SortKey) {
	var less func(a, b *domain.Product) int

	switch key {
	case SortPriceAsc:
		less = func(a, b *domain.Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceDesc:
		less = func(a, b *domain.Product) int { return b.Price.Cmp(a.Price) }
	case SortRating:
		less = func(a, b *domain.Product) int { return b.Rating.Cmp(a.Rating) }
	case SortName:
		collator := collate.New(language.English, collate.Loose)
		less = func(a, b *domain.Product) int { return collator.CompareString(a.Name, b.Name) }
	default: // SortNewest
		less = func(a, b *domain.Product) int {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return 0
			}
			if a.CreatedAt.After(b.CreatedAt) {
				return -1
			}
			return 1
		}
	}

	sort.Slice(products, func(i, j int) bool {
		if cmp := less(&products[i], &products[j]); cmp != 0 {
			return cmp < 0
		}
		return products[i].ID.String() < products[j].ID.String()
	})
}

// pageSlice returns the 1-indexed window [(page-1)*size, page*size).
func pageSlice(products []domain.Product, page, size int) []domain.Product {
	start := (page - 1) * size
	if start >= len(products) {
		return []domain.Product{}
	}

	end := start + size
	if end > len(products) {
		end = len(products)
	}

	return products[start:end]
}
