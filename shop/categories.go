package shop

import (
	"github.com/princinho/urbanthreads/models"
	"github.com/princinho/urbanthreads/utils"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Categories groups the catalog by category in first-seen order. The image of
// a category is the primary image of its first product.
func Categories(products []models.Product) []models.Category {
	title := cases.Title(language.English)
	out := make([]models.Category, 0)
	index := map[string]int{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if i, ok := index[p.Category]; ok {
			out[i].ProductCount++
			continue
		}
		index[p.Category] = len(out)
		out = append(out, models.Category{
			Name:         p.Category,
			Slug:         utils.GenerateSlug(p.Category),
			Title:        title.String(p.Category),
			ProductCount: 1,
			ImageUrl:     p.PrimaryImage(),
		})
	}
	return out
}

// CategoryBySlug finds a category by slug or by its raw name.
func CategoryBySlug(products []models.Product, slug string) (models.Category, bool) {
	for _, c := range Categories(products) {
		if c.Slug == slug || c.Name == slug {
			return c, true
		}
	}
	return models.Category{}, false
}
