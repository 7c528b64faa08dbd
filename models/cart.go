package models

import "github.com/shopspring/decimal"

// CartItem is one cart line. Product is a snapshot taken when the line was
// created, so later catalog edits do not change it.
type CartItem struct {
	Product       Product `json:"product"`
	Quantity      int     `json:"quantity"`
	SelectedSize  string  `json:"selectedSize"`
	SelectedColor string  `json:"selectedColor"`
}

// LineKey identifies a cart line.
type LineKey struct {
	ProductID string
	Size      string
	Color     string
}

func (i CartItem) Key() LineKey {
	return LineKey{ProductID: i.Product.ID, Size: i.SelectedSize, Color: i.SelectedColor}
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}
