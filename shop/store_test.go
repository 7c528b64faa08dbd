package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/princinho/urbanthreads/database"
	"github.com/princinho/urbanthreads/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog(t *testing.T, storage database.LocalStorage) *Catalog {
	t.Helper()
	products, err := SampleProducts()
	require.NoError(t, err)
	c, err := OpenCatalog(context.Background(), storage, products)
	require.NoError(t, err)
	return c
}

func openStore(t *testing.T) (*Store, database.LocalStorage) {
	t.Helper()
	storage := database.NewMemoryStorage()
	st, err := Open(context.Background(), sampleCatalog(t, storage), storage)
	require.NoError(t, err)
	return st, storage
}

func product(t *testing.T, c *Catalog, id string) models.Product {
	t.Helper()
	p, ok := c.Get(id)
	require.True(t, ok, "product %s", id)
	return p
}

type failingStorage struct{ database.LocalStorage }

func (failingStorage) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func TestAddToCartMergesSameVariant(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	tee := product(t, st.Catalog(), "1")

	require.NoError(t, st.AddToCart(ctx, tee, "M", "Black", 1))
	require.NoError(t, st.AddToCart(ctx, tee, "M", "Black", 2))

	items := st.CartItems()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 3, st.CartCount())
	assert.Equal(t, "119.97", st.CartTotal().StringFixed(2))
}

func TestAddToCartSeparatesVariants(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	tee := product(t, st.Catalog(), "1")

	require.NoError(t, st.AddToCart(ctx, tee, "M", "Black", 1))
	require.NoError(t, st.AddToCart(ctx, tee, "L", "Black", 1))
	require.NoError(t, st.AddToCart(ctx, tee, "M", "White", 1))

	assert.Len(t, st.CartItems(), 3)
	assert.Equal(t, 3, st.CartCount())
}

func TestAddToCartQuantityBelowOneCountsAsOne(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	require.NoError(t, st.AddToCart(ctx, product(t, st.Catalog(), "8"), "One Size", "Gray", 0))
	assert.Equal(t, 1, st.CartCount())
}

func TestRemoveFromCartDropsEveryVariant(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	tee := product(t, st.Catalog(), "1")
	jeans := product(t, st.Catalog(), "6")
	require.NoError(t, st.AddToCart(ctx, tee, "M", "Black", 1))
	require.NoError(t, st.AddToCart(ctx, tee, "L", "White", 2))
	require.NoError(t, st.AddToCart(ctx, jeans, "32", "Blue", 1))

	require.NoError(t, st.RemoveFromCart(ctx, "1"))

	items := st.CartItems()
	require.Len(t, items, 1)
	assert.Equal(t, "6", items[0].Product.ID)
}

func TestRemoveCartLineKeepsOtherVariants(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	tee := product(t, st.Catalog(), "1")
	require.NoError(t, st.AddToCart(ctx, tee, "M", "Black", 1))
	require.NoError(t, st.AddToCart(ctx, tee, "L", "White", 2))

	require.NoError(t, st.RemoveCartLine(ctx, models.LineKey{ProductID: "1", Size: "M", Color: "Black"}))

	items := st.CartItems()
	require.Len(t, items, 1)
	assert.Equal(t, "L", items[0].SelectedSize)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestUpdateCartItemQuantityAppliesToEveryVariant(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	tee := product(t, st.Catalog(), "1")
	require.NoError(t, st.AddToCart(ctx, tee, "M", "Black", 1))
	require.NoError(t, st.AddToCart(ctx, tee, "L", "White", 2))

	require.NoError(t, st.UpdateCartItemQuantity(ctx, "1", 5))

	for _, it := range st.CartItems() {
		assert.Equal(t, 5, it.Quantity)
	}
	assert.Equal(t, 10, st.CartCount())
}

func TestUpdateCartLineQuantityTouchesOneLine(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	tee := product(t, st.Catalog(), "1")
	require.NoError(t, st.AddToCart(ctx, tee, "M", "Black", 1))
	require.NoError(t, st.AddToCart(ctx, tee, "L", "White", 2))

	require.NoError(t, st.UpdateCartLineQuantity(ctx, models.LineKey{ProductID: "1", Size: "L", Color: "White"}, 4))

	items := st.CartItems()
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 4, items[1].Quantity)
}

func TestUnknownProductOperationsAreNoOps(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	require.NoError(t, st.AddToCart(ctx, product(t, st.Catalog(), "2"), "32", "Olive", 1))

	require.NoError(t, st.RemoveFromCart(ctx, "missing"))
	require.NoError(t, st.UpdateCartItemQuantity(ctx, "missing", 9))
	require.NoError(t, st.RemoveFromWishlist(ctx, "missing"))

	assert.Equal(t, 1, st.CartCount())
	assert.Empty(t, st.Wishlist())
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	require.NoError(t, st.AddToCart(ctx, product(t, st.Catalog(), "3"), "M", "Navy", 2))
	require.NoError(t, st.ClearCart(ctx))

	assert.Empty(t, st.CartItems())
	assert.Equal(t, 0, st.CartCount())
	assert.True(t, st.CartTotal().IsZero())
}

func TestCartTotalUsesExactDecimals(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	// 0.1 + 0.2 style drift must not show up in totals
	cheap := models.Product{ID: "x", Name: "Sticker", Price: 0.1}
	other := models.Product{ID: "y", Name: "Pin", Price: 0.2}
	require.NoError(t, st.AddToCart(ctx, cheap, "", "", 1))
	require.NoError(t, st.AddToCart(ctx, other, "", "", 1))
	assert.Equal(t, "0.3", st.CartTotal().String())
}

func TestWishlistToggle(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	hoodie := product(t, st.Catalog(), "3")

	added, err := st.ToggleWishlist(ctx, hoodie)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, st.IsInWishlist("3"))

	added, err = st.ToggleWishlist(ctx, hoodie)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, st.IsInWishlist("3"))
}

func TestAddToWishlistIgnoresDuplicates(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	hoodie := product(t, st.Catalog(), "3")
	require.NoError(t, st.AddToWishlist(ctx, hoodie))
	require.NoError(t, st.AddToWishlist(ctx, hoodie))
	assert.Len(t, st.Wishlist(), 1)
}

func TestStateSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	st, storage := openStore(t)
	tee := product(t, st.Catalog(), "1")
	require.NoError(t, st.AddToCart(ctx, tee, "S", "Gray", 2))
	require.NoError(t, st.AddToWishlist(ctx, product(t, st.Catalog(), "5")))

	reopened, err := Open(ctx, st.Catalog(), storage)
	require.NoError(t, err)
	assert.Equal(t, st.CartItems(), reopened.CartItems())
	assert.Equal(t, st.Wishlist(), reopened.Wishlist())
}

func TestMalformedSnapshotsLoadEmpty(t *testing.T) {
	ctx := context.Background()
	storage := database.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, KeyCart, []byte("{not json")))
	require.NoError(t, storage.Set(ctx, KeyWishlist, []byte(`"a string"`)))

	st, err := Open(ctx, sampleCatalog(t, storage), storage)
	require.NoError(t, err)
	assert.Empty(t, st.CartItems())
	assert.Empty(t, st.Wishlist())
}

func TestNullSnapshotLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := database.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, KeyCart, []byte("null")))

	st, err := Open(ctx, sampleCatalog(t, storage), storage)
	require.NoError(t, err)
	assert.NotNil(t, st.CartItems())
	assert.Empty(t, st.CartItems())
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	mem := database.NewMemoryStorage()
	catalog := sampleCatalog(t, mem)
	st, err := Open(ctx, catalog, failingStorage{mem})
	require.NoError(t, err)

	err = st.AddToCart(ctx, product(t, catalog, "1"), "M", "Black", 1)
	require.Error(t, err)
	assert.Equal(t, 1, st.CartCount())
}

func TestCartLinesAreSnapshots(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	tee := product(t, st.Catalog(), "1")
	require.NoError(t, st.AddToCart(ctx, tee, "M", "Black", 1))

	edited := tee
	edited.Price = 1
	require.NoError(t, st.UpdateProduct(ctx, edited))

	assert.InDelta(t, 39.99, st.CartItems()[0].Product.Price, 1e-9)
}

func TestProductsAddedThroughOneStoreAreSharedByAll(t *testing.T) {
	ctx := context.Background()
	storage := database.NewMemoryStorage()
	catalog := sampleCatalog(t, storage)
	a, err := Open(ctx, catalog, database.Scoped(storage, "visitor:a:"))
	require.NoError(t, err)
	b, err := Open(ctx, catalog, database.Scoped(storage, "visitor:b:"))
	require.NoError(t, err)

	scarf := product(t, catalog, "8")
	scarf.ID = "9"
	scarf.Name = "Wool Scarf"
	require.NoError(t, a.AddProduct(ctx, scarf))

	assert.Len(t, b.Products(), 9)
	assert.ErrorIs(t, b.AddProduct(ctx, scarf), ErrDuplicateID)
}

func TestRemovedProductStaysInCartAndWishlist(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	beanie := product(t, st.Catalog(), "8")
	require.NoError(t, st.AddToCart(ctx, beanie, "One Size", "Black", 1))
	require.NoError(t, st.AddToWishlist(ctx, beanie))

	require.NoError(t, st.RemoveProduct(ctx, "8"))

	_, ok := st.Catalog().Get("8")
	assert.False(t, ok)
	require.Len(t, st.CartItems(), 1)
	assert.Equal(t, "Knit Beanie", st.CartItems()[0].Product.Name)
	assert.True(t, st.IsInWishlist("8"))
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)
	require.NoError(t, st.AddToCart(ctx, product(t, st.Catalog(), "1"), "M", "Black", 1))

	items := st.CartItems()
	items[0].Quantity = 99
	items[0].Product.Colors[0] = "Pink"

	fresh := st.CartItems()
	assert.Equal(t, 1, fresh[0].Quantity)
	assert.Equal(t, "Black", fresh[0].Product.Colors[0])
}
