package shop

import "github.com/princinho/urbanthreads/models"

// Stats summarises the catalog for the admin dashboard.
type Stats struct {
	Total       int `json:"total"`
	Featured    int `json:"featured"`
	NewArrivals int `json:"newArrivals"`
	OnSale      int `json:"onSale"`
	TotalStock  int `json:"totalStock"`
	Brands      int `json:"brands"`
	Categories  int `json:"categories"`
}

func ComputeStats(products []models.Product) Stats {
	st := Stats{Total: len(products)}
	brands := map[string]struct{}{}
	categories := map[string]struct{}{}
	for _, p := range products {
		if p.Featured {
			st.Featured++
		}
		if p.NewArrival {
			st.NewArrivals++
		}
		if p.OnSale {
			st.OnSale++
		}
		st.TotalStock += p.Stock
		if p.Brand != "" {
			brands[p.Brand] = struct{}{}
		}
		if p.Category != "" {
			categories[p.Category] = struct{}{}
		}
	}
	st.Brands = len(brands)
	st.Categories = len(categories)
	return st
}
