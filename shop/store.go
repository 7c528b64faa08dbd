// Package shop holds the storefront state: the shared product catalog and,
// per visitor, the cart and wishlist. State is written to LocalStorage after
// every mutation and read back when a visitor's store is opened.
package shop

import (
	"context"
	"slices"
	"sync"

	"github.com/princinho/urbanthreads/database"
	"github.com/princinho/urbanthreads/models"
	"github.com/shopspring/decimal"
)

// Store is one visitor's view of the shop. Cart and wishlist mutations return
// an error only when the snapshot could not be written; the in-memory state
// has changed either way.
type Store struct {
	catalog *Catalog
	storage database.LocalStorage

	mu       sync.Mutex
	cart     []models.CartItem
	wishlist []models.Product
}

// Open restores the visitor's cart and wishlist from storage. Missing or
// malformed snapshots start empty.
func Open(ctx context.Context, catalog *Catalog, storage database.LocalStorage) (*Store, error) {
	s := &Store{
		catalog:  catalog,
		storage:  storage,
		cart:     []models.CartItem{},
		wishlist: []models.Product{},
	}
	var cart []models.CartItem
	if ok, err := load(ctx, storage, KeyCart, &cart); err != nil {
		return nil, err
	} else if ok && cart != nil {
		s.cart = cart
	}
	var wishlist []models.Product
	if ok, err := load(ctx, storage, KeyWishlist, &wishlist); err != nil {
		return nil, err
	} else if ok && wishlist != nil {
		s.wishlist = wishlist
	}
	return s, nil
}

func (s *Store) Catalog() *Catalog { return s.catalog }

func (s *Store) Products() []models.Product { return s.catalog.Products() }

func (s *Store) AddProduct(ctx context.Context, p models.Product) error {
	return s.catalog.Add(ctx, p)
}

func (s *Store) UpdateProduct(ctx context.Context, p models.Product) error {
	return s.catalog.Update(ctx, p)
}

func (s *Store) RemoveProduct(ctx context.Context, id string) error {
	return s.catalog.Remove(ctx, id)
}

// Cart

// AddToCart merges into the line with the same product, size and color, or
// appends a new line holding a copy of product. A quantity below 1 counts as 1.
// Variants are not checked against the product's sizes and colors.
func (s *Store) AddToCart(ctx context.Context, product models.Product, size, color string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.LineKey{ProductID: product.ID, Size: size, Color: color}
	if i := s.lineIndexLocked(key); i >= 0 {
		s.cart[i].Quantity += quantity
	} else {
		s.cart = append(s.cart, models.CartItem{
			Product:       product.Clone(),
			Quantity:      quantity,
			SelectedSize:  size,
			SelectedColor: color,
		})
	}
	return s.saveCartLocked(ctx)
}

func (s *Store) lineIndexLocked(key models.LineKey) int {
	return slices.IndexFunc(s.cart, func(it models.CartItem) bool { return it.Key() == key })
}

// RemoveFromCart drops every line of the product, whatever its variant.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = slices.DeleteFunc(s.cart, func(it models.CartItem) bool { return it.Product.ID == productID })
	return s.saveCartLocked(ctx)
}

// RemoveCartLine drops only the line matching key.
func (s *Store) RemoveCartLine(ctx context.Context, key models.LineKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = slices.DeleteFunc(s.cart, func(it models.CartItem) bool { return it.Key() == key })
	return s.saveCartLocked(ctx)
}

// UpdateCartItemQuantity sets quantity on every line of the product. The
// value is stored as given; callers keep it at 1 or more.
func (s *Store) UpdateCartItemQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].Product.ID == productID {
			s.cart[i].Quantity = quantity
		}
	}
	return s.saveCartLocked(ctx)
}

// UpdateCartLineQuantity sets quantity on the line matching key only.
func (s *Store) UpdateCartLineQuantity(ctx context.Context, key models.LineKey, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.lineIndexLocked(key); i >= 0 {
		s.cart[i].Quantity = quantity
	}
	return s.saveCartLocked(ctx)
}

func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = []models.CartItem{}
	return s.saveCartLocked(ctx)
}

func (s *Store) saveCartLocked(ctx context.Context) error {
	return save(ctx, s.storage, KeyCart, s.cart)
}

func (s *Store) CartItems() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.cart))
	for i, it := range s.cart {
		it.Product = it.Product.Clone()
		out[i] = it
	}
	return out
}

// CartTotal is the sum of price × quantity over all lines.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, it := range s.cart {
		total = total.Add(it.LineTotal())
	}
	return total
}

// CartCount is the sum of quantities over all lines.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.cart {
		n += it.Quantity
	}
	return n
}

// Wishlist

func (s *Store) AddToWishlist(ctx context.Context, product models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wishlistIndexLocked(product.ID) >= 0 {
		return nil
	}
	s.wishlist = append(s.wishlist, product.Clone())
	return s.saveWishlistLocked(ctx)
}

func (s *Store) RemoveFromWishlist(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlist = slices.DeleteFunc(s.wishlist, func(p models.Product) bool { return p.ID == productID })
	return s.saveWishlistLocked(ctx)
}

// ToggleWishlist adds the product when absent and removes it otherwise. It
// reports whether the product is on the wishlist afterwards.
func (s *Store) ToggleWishlist(ctx context.Context, product models.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.wishlistIndexLocked(product.ID); i >= 0 {
		s.wishlist = slices.Delete(s.wishlist, i, i+1)
		return false, s.saveWishlistLocked(ctx)
	}
	s.wishlist = append(s.wishlist, product.Clone())
	return true, s.saveWishlistLocked(ctx)
}

func (s *Store) IsInWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlistIndexLocked(productID) >= 0
}

func (s *Store) Wishlist() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.wishlist)
}

func (s *Store) wishlistIndexLocked(id string) int {
	return slices.IndexFunc(s.wishlist, func(p models.Product) bool { return p.ID == id })
}

func (s *Store) saveWishlistLocked(ctx context.Context) error {
	return save(ctx, s.storage, KeyWishlist, s.wishlist)
}
