package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals is the checkout price breakdown.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// OrderConfirmation is shown after a simulated order placement. It is never
// stored and the order number cannot be traced back to the order.
type OrderConfirmation struct {
	OrderNumber string    `json:"orderNumber"`
	Email       string    `json:"email"`
	ItemCount   int       `json:"itemCount"`
	Totals      Totals    `json:"totals"`
	PlacedAt    time.Time `json:"placedAt"`
}
