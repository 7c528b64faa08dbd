package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. JSON names follow the storefront's persisted
// snapshot format so saved carts and wishlists stay readable across releases.
type Product struct {
	ID          string   `bson:"id" json:"id" yaml:"id"`
	Name        string   `bson:"name" json:"name" yaml:"name"`
	Description string   `bson:"description" json:"description" yaml:"description"`
	Price       float64  `bson:"price" json:"price" yaml:"price"`
	Image       string   `bson:"image" json:"image" yaml:"image"`
	Images      []string `bson:"images" json:"images" yaml:"images"`
	Category    string   `bson:"category" json:"category" yaml:"category"`
	Colors      []string `bson:"colors" json:"colors" yaml:"colors"`
	Sizes       []string `bson:"sizes" json:"sizes" yaml:"sizes"`
	Featured    bool     `bson:"featured,omitempty" json:"featured,omitempty" yaml:"featured"`
	NewArrival  bool     `bson:"newArrival,omitempty" json:"newArrival,omitempty" yaml:"newArrival"`
	OnSale      bool     `bson:"onSale,omitempty" json:"onSale,omitempty" yaml:"onSale"`
	Discount    float64  `bson:"discount,omitempty" json:"discount,omitempty" yaml:"discount"`
	SKU         string   `bson:"sku,omitempty" json:"sku,omitempty" yaml:"sku"`
	Brand       string   `bson:"brand,omitempty" json:"brand,omitempty" yaml:"brand"`
	Material    string   `bson:"material,omitempty" json:"material,omitempty" yaml:"material"`
	Weight      string   `bson:"weight,omitempty" json:"weight,omitempty" yaml:"weight"`
	Stock       int      `bson:"stock,omitempty" json:"stock,omitempty" yaml:"stock"`
	Tags        string   `bson:"tags,omitempty" json:"tags,omitempty" yaml:"tags"`
}

// PrimaryImage returns the first gallery image, falling back to Image.
func (p Product) PrimaryImage() string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	return p.Image
}

// UnitPrice is the list price as a decimal.
func (p Product) UnitPrice() decimal.Decimal {
	return decimal.NewFromFloat(p.Price)
}

// HasSize reports whether size is one of the declared sizes.
func (p Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

// HasColor reports whether color is one of the declared colors.
func (p Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// Clone returns a deep copy so slices are not shared with the catalog.
func (p Product) Clone() Product {
	p.Images = slices.Clone(p.Images)
	p.Colors = slices.Clone(p.Colors)
	p.Sizes = slices.Clone(p.Sizes)
	return p
}
