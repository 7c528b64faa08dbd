package shop

import (
	"slices"
	"sort"
	"strings"

	"github.com/princinho/urbanthreads/models"
	"github.com/princinho/urbanthreads/utils"
)

const (
	SpecialNew  = "new"
	SpecialSale = "sale"

	SortFeatured  = "featured"
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// Filter describes a product listing query. Zero values match everything.
type Filter struct {
	Search     string
	Special    string
	Categories []string
	Sizes      []string
	Colors     []string
	MinPrice   *float64
	MaxPrice   *float64
	Featured   *bool
	Sort       string
}

func matchesSearch(p models.Product, folded string) bool {
	return strings.Contains(utils.Fold(p.Name), folded) ||
		strings.Contains(utils.Fold(p.Category), folded) ||
		strings.Contains(utils.Fold(p.Description), folded)
}

func intersects(have, want []string) bool {
	return slices.ContainsFunc(have, func(v string) bool { return slices.Contains(want, v) })
}

// FilterProducts applies f and returns a new slice; products is not modified.
func FilterProducts(products []models.Product, f Filter) []models.Product {
	folded := utils.Fold(strings.TrimSpace(f.Search))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if folded != "" && !matchesSearch(p, folded) {
			continue
		}
		switch f.Special {
		case SpecialNew:
			if !p.NewArrival {
				continue
			}
		case SpecialSale:
			if !p.OnSale {
				continue
			}
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
			continue
		}
		if len(f.Sizes) > 0 && !intersects(p.Sizes, f.Sizes) {
			continue
		}
		if len(f.Colors) > 0 && !intersects(p.Colors, f.Colors) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.Featured != nil && p.Featured != *f.Featured {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].NewArrival && !out[j].NewArrival })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Featured && !out[j].Featured })
	}
	return out
}

// Facets are the distinct filter values present in the catalog, in first-seen
// order.
type Facets struct {
	Categories []string `json:"categories"`
	Sizes      []string `json:"sizes"`
	Colors     []string `json:"colors"`
}

func CollectFacets(products []models.Product) Facets {
	f := Facets{Categories: []string{}, Sizes: []string{}, Colors: []string{}}
	for _, p := range products {
		if p.Category != "" && !slices.Contains(f.Categories, p.Category) {
			f.Categories = append(f.Categories, p.Category)
		}
		for _, s := range p.Sizes {
			if !slices.Contains(f.Sizes, s) {
				f.Sizes = append(f.Sizes, s)
			}
		}
		for _, c := range p.Colors {
			if !slices.Contains(f.Colors, c) {
				f.Colors = append(f.Colors, c)
			}
		}
	}
	return f
}

// SearchAdmin is the admin table filter: name or category contains term.
func SearchAdmin(products []models.Product, term string) []models.Product {
	folded := utils.Fold(strings.TrimSpace(term))
	if folded == "" {
		return products
	}
	out := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(utils.Fold(p.Name), folded) || strings.Contains(utils.Fold(p.Category), folded) {
			out = append(out, p)
		}
	}
	return out
}
