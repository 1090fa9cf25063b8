package catalog

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/storeapi"
)

func fixture() []storeapi.Product {
	return []storeapi.Product{
		{ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing", Description: "laptop backpack", Rating: storeapi.Rating{Rate: 3.9, Count: 120}},
		{ID: 2, Title: "T-Shirt", Price: 22.30, Category: "men's clothing", Description: "slim fit", Rating: storeapi.Rating{Rate: 4.1, Count: 259}},
		{ID: 3, Title: "Gold Ring", Price: 168.00, Category: "jewelery", Description: "dragon station ring", Rating: storeapi.Rating{Rate: 4.6, Count: 400}},
		{ID: 4, Title: "Hard Drive", Price: 64.00, Category: "electronics", Description: "external usb drive", Rating: storeapi.Rating{Rate: 3.3, Count: 203}},
		{ID: 5, Title: "Monitor", Price: 999.99, Category: "electronics", Description: "49in curved gaming", Rating: storeapi.Rating{Rate: 2.2, Count: 140}},
		{ID: 6, Title: "Summer Dress", Price: 39.99, Category: "women's clothing", Description: "short sleeve moon", Rating: storeapi.Rating{Rate: 4.7, Count: 130}},
	}
}

func allFilter() Filter {
	return NewFilter(Bounds(fixture()))
}

func TestApplySearch(t *testing.T) {
	f := allFilter()
	f.Query = "  DRIVE  "

	got := Apply(fixture(), f)
	require.Len(t, got, 1, "search is trimmed and case-insensitive, over title and description")
	assert.Equal(t, 4, got[0].ID)
}

func TestApplySearchMatchesDescription(t *testing.T) {
	f := allFilter()
	f.Query = "dragon"

	got := Apply(fixture(), f)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)
}

func TestApplyCategories(t *testing.T) {
	f := allFilter()
	f.ToggleCategory("electronics")
	f.ToggleCategory("jewelery")

	got := Apply(fixture(), f)
	assert.Len(t, got, 3, "multi-select categories union their products")

	f.ToggleCategory("electronics") // toggle off
	got = Apply(fixture(), f)
	require.Len(t, got, 1)
	assert.Equal(t, "jewelery", got[0].Category)
}

func TestApplyPriceCeiling(t *testing.T) {
	f := allFilter()
	f.PriceMax = 65

	got := Apply(fixture(), f)
	for _, p := range got {
		assert.LessOrEqual(t, p.Price, 65.0)
	}
	assert.Len(t, got, 3)
}

func TestApplyMinRating(t *testing.T) {
	f := allFilter()
	f.MinRating = 4

	got := Apply(fixture(), f)
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Rating.Rate, 4.0)
	}
}

func TestApplyEmptyResultIsValid(t *testing.T) {
	f := allFilter()
	f.ToggleCategory("groceries")

	page := Paginate(fixture(), f, 1, DefaultPageSize)
	assert.Zero(t, page.TotalCount)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalPages)
}

func TestSortOrders(t *testing.T) {
	t.Run("price low to high", func(t *testing.T) {
		f := allFilter()
		f.Sort = SortPriceLowHigh
		got := Apply(fixture(), f)
		assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
			return got[i].Price < got[j].Price
		}))
	})

	t.Run("price high to low", func(t *testing.T) {
		f := allFilter()
		f.Sort = SortPriceHighLow
		got := Apply(fixture(), f)
		assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
			return got[i].Price > got[j].Price
		}))
	})

	t.Run("rating high to low", func(t *testing.T) {
		f := allFilter()
		f.Sort = SortRatingHighLow
		got := Apply(fixture(), f)
		assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
			return got[i].Rating.Rate > got[j].Rating.Rate
		}))
	})

	t.Run("title a to z", func(t *testing.T) {
		f := allFilter()
		f.Sort = SortTitleAZ
		got := Apply(fixture(), f)
		require.NotEmpty(t, got)
		assert.Equal(t, "Backpack", got[0].Title)
	})

	t.Run("default is ascending id", func(t *testing.T) {
		f := allFilter()
		got := Apply(fixture(), f)
		assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
			return got[i].ID < got[j].ID
		}))
	})
}

func TestSortIsStableUnderFilterChanges(t *testing.T) {
	// sort applies after filtering, so narrowing never reorders
	f := allFilter()
	f.Sort = SortPriceLowHigh
	f.ToggleCategory("electronics")

	got := Apply(fixture(), f)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].ID)
	assert.Equal(t, 5, got[1].ID)
}

func TestPaginate(t *testing.T) {
	f := allFilter()

	page := Paginate(fixture(), f, 1, 4)
	assert.Equal(t, 6, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 4)
	assert.Equal(t, 1, page.Number)

	page = Paginate(fixture(), f, 2, 4)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Number)
}

func TestPaginateClampsOutOfRange(t *testing.T) {
	f := allFilter()

	page := Paginate(fixture(), f, 99, 4)
	assert.Equal(t, 2, page.Number, "past-the-end pages clamp to the last page")

	page = Paginate(fixture(), f, 0, 4)
	assert.Equal(t, 1, page.Number)
}

func TestBounds(t *testing.T) {
	b := Bounds(fixture())
	assert.Equal(t, 22.0, b.Min, "floored to a whole unit")
	assert.Equal(t, 1000.0, b.Max, "ceiled to a whole unit")

	empty := Bounds(nil)
	assert.Equal(t, PriceBounds{Min: 0, Max: 1000}, empty)
}

func TestFilterReset(t *testing.T) {
	bounds := Bounds(fixture())
	f := NewFilter(bounds)
	f.Query = "drive"
	f.ToggleCategory("electronics")
	f.PriceMax = 50
	f.MinRating = 4
	f.Sort = SortPriceHighLow

	f.Reset(bounds)
	assert.Equal(t, NewFilter(bounds), f)

	got := Apply(fixture(), f)
	assert.Len(t, got, len(fixture()), "a reset filter matches the whole catalog")
}
