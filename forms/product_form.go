package forms

import (
	"github.com/princinho/urbanthreads/models"
)

// ProductFields lists every editable product field.
var ProductFields = []Field{
	Text{"name", func(p *models.Product, v string) { p.Name = v }},
	Text{"description", func(p *models.Product, v string) { p.Description = v }},
	Number{"price", func(p *models.Product, v float64) { p.Price = v }},
	Text{"image", func(p *models.Product, v string) { p.Image = v }},
	List{"images", func(p *models.Product, v []string) { p.Images = v }},
	Text{"category", func(p *models.Product, v string) { p.Category = v }},
	List{"colors", func(p *models.Product, v []string) { p.Colors = v }},
	List{"sizes", func(p *models.Product, v []string) { p.Sizes = v }},
	Bool{"featured", func(p *models.Product, v bool) { p.Featured = v }},
	Bool{"newArrival", func(p *models.Product, v bool) { p.NewArrival = v }},
	Bool{"onSale", func(p *models.Product, v bool) { p.OnSale = v }},
	Number{"discount", func(p *models.Product, v float64) { p.Discount = v }},
	Text{"sku", func(p *models.Product, v string) { p.SKU = v }},
	Text{"brand", func(p *models.Product, v string) { p.Brand = v }},
	Text{"material", func(p *models.Product, v string) { p.Material = v }},
	Text{"weight", func(p *models.Product, v string) { p.Weight = v }},
	Integer{"stock", func(p *models.Product, v int) { p.Stock = v }},
	Text{"tags", func(p *models.Product, v string) { p.Tags = v }},
}

// Values is satisfied by url.Values and multipart.Form.Value.
type Values interface {
	Has(key string) bool
	Get(key string) string
}

// DecodeProduct applies every present key of values onto base. Checkboxes are
// special: an unchecked box is not submitted at all, so with full set, a
// missing Bool field is applied as false.
func DecodeProduct(base models.Product, values Values, full bool) models.Product {
	p := base.Clone()
	for _, f := range ProductFields {
		if values.Has(f.Name()) {
			f.Apply(&p, values.Get(f.Name()))
			continue
		}
		if _, isBool := f.(Bool); isBool && full {
			f.Apply(&p, "")
		}
	}
	return p
}

// Normalize fills the defaults a new product needs: one colour, one size and
// a gallery holding the primary image.
func Normalize(p models.Product) models.Product {
	if len(p.Colors) == 0 {
		p.Colors = []string{"Default"}
	}
	if len(p.Sizes) == 0 {
		p.Sizes = []string{"One Size"}
	}
	if len(p.Images) == 0 && p.Image != "" {
		p.Images = []string{p.Image}
	}
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
	if p.Category == "" {
		p.Category = "tshirts"
	}
	return p
}
