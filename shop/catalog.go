package shop

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"

	"github.com/princinho/urbanthreads/database"
	"github.com/princinho/urbanthreads/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateID     = errors.New("product id already exists")
)

// Catalog is the shared product list. Every mutation persists the list it
// just produced, so back-to-back edits never write an outdated snapshot.
type Catalog struct {
	storage database.LocalStorage

	mu       sync.RWMutex
	products []models.Product
}

// OpenCatalog loads the persisted product list, falling back to defaults when
// nothing (or nothing readable) was saved.
func OpenCatalog(ctx context.Context, storage database.LocalStorage, defaults []models.Product) (*Catalog, error) {
	var saved []models.Product
	ok, err := load(ctx, storage, KeyProducts, &saved)
	if err != nil {
		return nil, err
	}
	c := &Catalog{storage: storage}
	if ok {
		c.products = saved
	} else {
		c.products = cloneProducts(defaults)
	}
	if c.products == nil {
		c.products = []models.Product{}
	}
	return c, nil
}

func cloneProducts(in []models.Product) []models.Product {
	out := make([]models.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// Products returns a copy of the catalog in display order.
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneProducts(c.products)
}

func (c *Catalog) Get(id string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexLocked(id)
	if i < 0 {
		return models.Product{}, false
	}
	return c.products[i].Clone(), true
}

func (c *Catalog) indexLocked(id string) int {
	return slices.IndexFunc(c.products, func(p models.Product) bool { return p.ID == id })
}

func (c *Catalog) Add(ctx context.Context, p models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(p.ID) >= 0 {
		return ErrDuplicateID
	}
	c.products = append(c.products, p.Clone())
	log.Printf("catalog: added product %s (%s)", p.ID, p.Name)
	return save(ctx, c.storage, KeyProducts, c.products)
}

// Update replaces the product with the same id.
func (c *Catalog) Update(ctx context.Context, p models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(p.ID)
	if i < 0 {
		return ErrProductNotFound
	}
	c.products[i] = p.Clone()
	log.Printf("catalog: updated product %s", p.ID)
	return save(ctx, c.storage, KeyProducts, c.products)
}

// Remove deletes a product. Carts and wishlists holding it are left alone.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return ErrProductNotFound
	}
	c.products = slices.Delete(c.products, i, i+1)
	log.Printf("catalog: removed product %s", id)
	return save(ctx, c.storage, KeyProducts, c.products)
}
