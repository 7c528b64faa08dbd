package shop

import (
	"context"
	"testing"
	"time"

	"github.com/princinho/urbanthreads/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(t *testing.T) []models.Product {
	t.Helper()
	products, err := SampleProducts()
	require.NoError(t, err)
	return products
}

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func ptr(f float64) *float64 { return &f }

func TestFilterProducts(t *testing.T) {
	products := samples(t)
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"default sort puts featured first", Filter{}, []string{"1", "3", "6", "2", "4", "5", "7", "8"}},
		{"search is case and accent insensitive", Filter{Search: "JÉANS"}, []string{"6"}},
		{"search matches category", Filter{Search: "jackets"}, []string{"4", "5"}},
		{"search matches description", Filter{Search: "pockets"}, []string{"2"}},
		{"new arrivals", Filter{Special: SpecialNew}, []string{"2", "5", "8"}},
		{"on sale", Filter{Special: SpecialSale}, []string{"4", "7"}},
		{"categories", Filter{Categories: []string{"pants", "accessories"}}, []string{"6", "2", "8"}},
		{"sizes", Filter{Sizes: []string{"XS"}}, []string{"4"}},
		{"colors", Filter{Colors: []string{"Burgundy", "Cream"}}, []string{"4", "8"}},
		{"price range", Filter{MinPrice: ptr(40), MaxPrice: ptr(90)}, []string{"3", "6", "2", "7"}},
		{"price low to high", Filter{Categories: []string{"jackets", "tshirts"}, Sort: SortPriceLow}, []string{"1", "7", "4", "5"}},
		{"price high to low", Filter{Categories: []string{"pants"}, Sort: SortPriceHigh}, []string{"2", "6"}},
		{"newest", Filter{Categories: []string{"jackets", "accessories"}, Sort: SortNewest}, []string{"5", "8", "4"}},
		{"featured only", Filter{Featured: &[]bool{true}[0]}, []string{"1", "3", "6"}},
		{"no match", Filter{Search: "tuxedo"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterProducts(products, tt.filter)))
		})
	}
}

func TestFilterProductsDoesNotReorderInput(t *testing.T) {
	products := samples(t)
	FilterProducts(products, Filter{Sort: SortPriceHigh})
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, ids(products))
}

func TestCollectFacets(t *testing.T) {
	f := CollectFacets(samples(t))
	assert.Equal(t, []string{"tshirts", "pants", "hoodies", "jackets", "accessories"}, f.Categories)
	assert.Contains(t, f.Sizes, "One Size")
	assert.Contains(t, f.Colors, "Burgundy")
}

func TestSearchAdmin(t *testing.T) {
	products := samples(t)
	assert.Equal(t, []string{"4", "5"}, ids(SearchAdmin(products, "JACKET")))
	assert.Len(t, SearchAdmin(products, "  "), 8)
	// description text is not searched in the admin table
	assert.Empty(t, SearchAdmin(products, "pockets"))
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(samples(t))
	assert.Equal(t, 8, st.Total)
	assert.Equal(t, 3, st.Featured)
	assert.Equal(t, 3, st.NewArrivals)
	assert.Equal(t, 2, st.OnSale)
	assert.Equal(t, 120, st.TotalStock)
	assert.Equal(t, 1, st.Brands)
	assert.Equal(t, 5, st.Categories)
}

func TestCategories(t *testing.T) {
	cats := Categories(samples(t))
	require.Len(t, cats, 5)
	assert.Equal(t, "tshirts", cats[0].Name)
	assert.Equal(t, "Tshirts", cats[0].Title)
	assert.Equal(t, 2, cats[0].ProductCount)

	c, ok := CategoryBySlug(samples(t), "jackets")
	require.True(t, ok)
	assert.Equal(t, 2, c.ProductCount)
	_, ok = CategoryBySlug(samples(t), "shoes")
	assert.False(t, ok)
}

func TestSuggest(t *testing.T) {
	hits, err := Suggest(context.Background(), samples(t), "urban", 0, 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Urban Cargo Pants", hits[0].Name)
	assert.Equal(t, "Urban Bomber Jacket", hits[1].Name)
	assert.Equal(t, "pants", hits[0].Category)

	hits, err = Suggest(context.Background(), samples(t), "a", 2, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = Suggest(context.Background(), samples(t), "   ", 5, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSuggestFallbacks(t *testing.T) {
	hits, err := Suggest(context.Background(), []models.Product{{ID: "q", Description: "mystery item"}}, "mystery", 5, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Unnamed Product", hits[0].Name)
	assert.Equal(t, "Uncategorized", hits[0].Category)
}

func TestSuggestCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Suggest(ctx, samples(t), "tee", 5, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
