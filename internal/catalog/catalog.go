// Package catalog is the pure product filtering, sorting, and
// pagination pipeline behind the shop page. Everything here is a
// function of (products, filter, page); there is no hidden state.
package catalog

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"shopfront/internal/storeapi"
)

// DefaultPageSize is how many products the shop page shows at once.
const DefaultPageSize = 8

// SortKey enumerates the supported sort orders.
type SortKey string

const (
	SortDefault       SortKey = "default" // ascending product id
	SortPriceLowHigh  SortKey = "price-low-high"
	SortPriceHighLow  SortKey = "price-high-low"
	SortRatingHighLow SortKey = "rating-high-low"
	SortTitleAZ       SortKey = "name-a-z"
)

// SortKeys lists all sort orders in display order.
var SortKeys = []SortKey{SortDefault, SortPriceLowHigh, SortPriceHighLow, SortRatingHighLow, SortTitleAZ}

// Label returns a human-readable name for the sort key.
func (k SortKey) Label() string {
	switch k {
	case SortPriceLowHigh:
		return "Price: Low to High"
	case SortPriceHighLow:
		return "Price: High to Low"
	case SortRatingHighLow:
		return "Rating: High to Low"
	case SortTitleAZ:
		return "Name: A to Z"
	default:
		return "Default"
	}
}

// Filter holds the shop page's filter criteria. The zero value with
// PriceMax unset matches nothing sensible, so construct via NewFilter.
type Filter struct {
	Query      string   // free-text search over title and description
	Categories []string // empty means all categories
	PriceMin   float64  // fixed floor derived from the catalog
	PriceMax   float64  // user-adjustable ceiling
	MinRating  float64  // 0 means no restriction
	Sort       SortKey
}

// NewFilter returns a filter matching the whole catalog within the
// given price bounds.
func NewFilter(bounds PriceBounds) Filter {
	return Filter{
		PriceMin: bounds.Min,
		PriceMax: bounds.Max,
		Sort:     SortDefault,
	}
}

// Reset clears every field back to "match everything" for the bounds.
func (f *Filter) Reset(bounds PriceBounds) {
	*f = NewFilter(bounds)
}

// HasCategory reports whether the category is in the selected set.
func (f Filter) HasCategory(category string) bool {
	for _, c := range f.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ToggleCategory adds or removes a category from the selected set.
func (f *Filter) ToggleCategory(category string) {
	if f.HasCategory(category) {
		out := f.Categories[:0]
		for _, c := range f.Categories {
			if c != category {
				out = append(out, c)
			}
		}
		f.Categories = out
		return
	}
	f.Categories = append(f.Categories, category)
}

// PriceBounds is the fixed floor and maximum ceiling derived from the
// loaded catalog.
type PriceBounds struct {
	Min float64
	Max float64
}

// Bounds computes the price bounds over a catalog, floored/ceiled to
// whole currency units. An empty catalog yields [0, 1000].
func Bounds(products []storeapi.Product) PriceBounds {
	if len(products) == 0 {
		return PriceBounds{Min: 0, Max: 1000}
	}
	min, max := products[0].Price, products[0].Price
	for _, p := range products[1:] {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	return PriceBounds{Min: math.Floor(min), Max: math.Ceil(max)}
}

// Page is one page of filtered, sorted results.
type Page struct {
	Items      []storeapi.Product
	TotalCount int // products matching the filter, across all pages
	TotalPages int
	Number     int // 1-based page number actually returned
}

// Apply runs the filter and sort steps over the catalog and returns the
// full matching set in order. Sort is always the last step before
// pagination.
func Apply(products []storeapi.Product, f Filter) []storeapi.Product {
	filtered := make([]storeapi.Product, 0, len(products))

	query := strings.ToLower(strings.TrimSpace(f.Query))
	for _, p := range products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if len(f.Categories) > 0 && !f.HasCategory(p.Category) {
			continue
		}
		if p.Price < f.PriceMin || p.Price > f.PriceMax {
			continue
		}
		if f.MinRating > 0 && p.Rating.Rate < f.MinRating {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, f.Sort)
	return filtered
}

// Paginate applies the filter pipeline and slices out one page.
// Pages are 1-based; out-of-range pages clamp into the valid range.
// An empty result is a valid outcome, not an error.
func Paginate(products []storeapi.Product, f Filter, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	filtered := Apply(products, f)

	totalCount := len(filtered)
	totalPages := (totalCount + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalCount {
		start = totalCount
	}
	if end > totalCount {
		end = totalCount
	}

	return Page{
		Items:      filtered[start:end],
		TotalCount: totalCount,
		TotalPages: totalPages,
		Number:     page,
	}
}

func sortProducts(products []storeapi.Product, key SortKey) {
	switch key {
	case SortPriceLowHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceHighLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortRatingHighLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating.Rate > products[j].Rating.Rate
		})
	case SortTitleAZ:
		coll := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(products, func(i, j int) bool {
			return coll.CompareString(products[i].Title, products[j].Title) < 0
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ID < products[j].ID
		})
	}
}

// Categories returns the sorted unique category names in a catalog.
func Categories(products []storeapi.Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}
