package catalog

import (
	"net/url"
	"strconv"
)

// Query-string keys for the navigable listing URL:
// /products?search=<term>&brand=<slug>&category=<slug>&sort=<key>&page=<n>
const (
	paramSearch   = "search"
	paramBrand    = "brand"
	paramCategory = "category"
	paramSort     = "sort"
	paramPage     = "page"
)

// Encode serializes the non-default criteria into a canonical query string.
// Only the first selected brand and category slug are persisted even when
// several are active; this mirrors the shareable-URL behavior the storefront
// always had and is a documented limitation, not an oversight.
func Encode(c Criteria) string {
	params := url.Values{}

	if c.SearchTerm != "" {
		params.Set(paramSearch, c.SearchTerm)
	}
	if len(c.BrandSlugs) > 0 {
		params.Set(paramBrand, c.BrandSlugs[0])
	}
	if len(c.CategorySlugs) > 0 {
		params.Set(paramCategory, c.CategorySlugs[0])
	}
	if c.Sort != "" && c.Sort != SortNewest {
		params.Set(paramSort, string(c.Sort))
	}
	if c.Page > 1 {
		params.Set(paramPage, strconv.Itoa(c.Page))
	}

	return params.Encode()
}

// Decode parses a raw query string into criteria. Decoding is tolerant:
// unknown keys are ignored, an unknown sort falls back to newest and a
// malformed or non-positive page defaults to 1. PageSize is not part of the
// URL shape; the caller supplies it.
func Decode(raw string) Criteria {
	values, err := url.ParseQuery(raw)
	if err != nil {
		values = url.Values{}
	}

	return DecodeValues(values)
}

// DecodeValues is Decode over already-parsed URL values.
func DecodeValues(values url.Values) Criteria {
	c := Criteria{
		SearchTerm: values.Get(paramSearch),
		Sort:       ParseSortKey(values.Get(paramSort)),
		Page:       1,
	}

	if brand := values.Get(paramBrand); brand != "" {
		c.BrandSlugs = []string{brand}
	}
	if category := values.Get(paramCategory); category != "" {
		c.CategorySlugs = []string{category}
	}
	if page, err := strconv.Atoi(values.Get(paramPage)); err == nil && page > 0 {
		c.Page = page
	}

	return c
}
