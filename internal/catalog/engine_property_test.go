package catalog

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"diecast-store/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

var (
	propertyBrands     = []string{"autoart", "minichamps", "bburago", "ferrari"}
	propertyCategories = []string{"sports-cars", "classics", "formula-1"}
)

// randomWorkingSet builds n products with deterministic UUIDs drawn from the
// given seed so a failing case can be replayed.
func randomWorkingSet(n int, seed int64) []domain.Product {
	rng := rand.New(rand.NewSource(seed))
	products := make([]domain.Product, 0, n)

	for i := 0; i < n; i++ {
		brand := propertyBrands[rng.Intn(len(propertyBrands))]
		category := propertyCategories[rng.Intn(len(propertyCategories))]
		price := decimal.NewFromInt(int64(rng.Intn(200) + 1))

		products = append(products, domain.Product{
			ID:        uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1)),
			Name:      fmt.Sprintf("Model %d", i),
			Slug:      fmt.Sprintf("model-%d", i),
			Price:     price,
			Rating:    decimal.NewFromInt(int64(rng.Intn(6))),
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(rng.Intn(5000)) * time.Minute),
			Brand:     domain.Brand{Name: brand, Slug: brand},
			Category:  domain.Category{Slug: category},
		})
	}

	return products
}

func TestProperty_FilterOrderDoesNotChangeResult(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("shuffling the working set never changes the page", prop.ForAll(
		func(size int, seed int64, brandIdx int, sortIdx int) bool {
			products := randomWorkingSet(size, seed)

			c := NewCriteria(7)
			c.BrandSlugs = []string{propertyBrands[brandIdx%len(propertyBrands)]}
			c.Sort = []SortKey{SortNewest, SortPriceAsc, SortPriceDesc, SortRating, SortName}[sortIdx%5]

			first, err := Apply(products, c)
			if err != nil {
				t.Logf("FAIL: Apply returned error: %v", err)
				return false
			}

			shuffled := make([]domain.Product, len(products))
			copy(shuffled, products)
			rng := rand.New(rand.NewSource(seed + 1))
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			second, err := Apply(shuffled, c)
			if err != nil {
				t.Logf("FAIL: Apply on shuffled input returned error: %v", err)
				return false
			}

			if first.TotalMatching != second.TotalMatching {
				t.Logf("FAIL: TotalMatching differs: %d vs %d", first.TotalMatching, second.TotalMatching)
				return false
			}

			if len(first.Items) != len(second.Items) {
				t.Logf("FAIL: page length differs: %d vs %d", len(first.Items), len(second.Items))
				return false
			}

			for i := range first.Items {
				if first.Items[i].ID != second.Items[i].ID {
					t.Logf("FAIL: item %d differs: %s vs %s", i, first.Items[i].ID, second.Items[i].ID)
					return false
				}
			}

			return true
		},
		gen.IntRange(0, 60),
		gen.Int64Range(1, 1_000_000),
		gen.IntRange(0, 3),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_PagesPartitionTheMatchingSet(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("walking all pages visits every match exactly once", prop.ForAll(
		func(size int, seed int64, pageSize int) bool {
			products := randomWorkingSet(size, seed)

			c := NewCriteria(pageSize)
			c.Sort = SortPriceAsc

			seen := map[uuid.UUID]bool{}
			total := 0

			for page := 1; ; page++ {
				c.Page = page
				result, err := Apply(products, c)
				if err != nil {
					t.Logf("FAIL: Apply returned error on page %d: %v", page, err)
					return false
				}

				if len(result.Items) == 0 {
					break
				}

				if page > 1 && len(result.Items) > pageSize {
					t.Logf("FAIL: page %d larger than page size", page)
					return false
				}

				for _, p := range result.Items {
					if seen[p.ID] {
						t.Logf("FAIL: product %s appeared on two pages", p.ID)
						return false
					}
					seen[p.ID] = true
				}

				total = result.TotalMatching
			}

			if len(seen) != total {
				t.Logf("FAIL: visited %d products, expected %d", len(seen), total)
				return false
			}

			return true
		},
		gen.IntRange(0, 50),
		gen.Int64Range(1, 1_000_000),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_EveryPageItemMatchesTheFilters(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("paginated items always satisfy the active filters", prop.ForAll(
		func(size int, seed int64, brandIdx int, categoryIdx int, minPrice int, page int) bool {
			products := randomWorkingSet(size, seed)

			brand := propertyBrands[brandIdx%len(propertyBrands)]
			category := propertyCategories[categoryIdx%len(propertyCategories)]
			min := decimal.NewFromInt(int64(minPrice))

			c := NewCriteria(5)
			c.BrandSlugs = []string{brand}
			c.CategorySlugs = []string{category}
			c.PriceMin = &min
			c.Page = page

			result, err := Apply(products, c)
			if err != nil {
				t.Logf("FAIL: Apply returned error: %v", err)
				return false
			}

			for _, p := range result.Items {
				if p.Brand.Slug != brand {
					t.Logf("FAIL: brand %s leaked through filter %s", p.Brand.Slug, brand)
					return false
				}
				if p.Category.Slug != category {
					t.Logf("FAIL: category %s leaked through filter %s", p.Category.Slug, category)
					return false
				}
				if p.Price.LessThan(min) {
					t.Logf("FAIL: price %s below minimum %s", p.Price, min)
					return false
				}
			}

			return true
		},
		gen.IntRange(0, 60),
		gen.Int64Range(1, 1_000_000),
		gen.IntRange(0, 3),
		gen.IntRange(0, 2),
		gen.IntRange(1, 200),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
