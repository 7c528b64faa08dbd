package checkout

import (
	"fmt"

	"github.com/princinho/urbanthreads/models"
	"github.com/shopspring/decimal"
)

type ShippingMethod string

const (
	Standard ShippingMethod = "standard"
	Express  ShippingMethod = "express"
	NextDay  ShippingMethod = "nextDay"
)

var (
	TaxRate               = decimal.RequireFromString("0.08")
	FreeShippingThreshold = decimal.NewFromInt(100)

	standardFee = decimal.NewFromInt(8)
	expressFee  = decimal.NewFromInt(15)
	nextDayFee  = decimal.NewFromInt(25)
)

func ParseShippingMethod(s string) (ShippingMethod, error) {
	switch m := ShippingMethod(s); m {
	case Standard, Express, NextDay:
		return m, nil
	case "":
		return Standard, nil
	default:
		return "", fmt.Errorf("unknown shipping method %q", s)
	}
}

// ShippingCost: standard is free above the threshold, the other methods are
// flat fees.
func ShippingCost(method ShippingMethod, subtotal decimal.Decimal) decimal.Decimal {
	switch method {
	case Express:
		return expressFee
	case NextDay:
		return nextDayFee
	default:
		if subtotal.GreaterThan(FreeShippingThreshold) {
			return decimal.Zero
		}
		return standardFee
	}
}

// ComputeTotals derives the order breakdown; nothing here is stored.
func ComputeTotals(subtotal decimal.Decimal, method ShippingMethod) models.Totals {
	shipping := ShippingCost(method, subtotal)
	tax := subtotal.Mul(TaxRate)
	return models.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
