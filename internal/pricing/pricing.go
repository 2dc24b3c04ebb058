// Package pricing computes order totals for a cart.
package pricing

import "github.com/shopspring/decimal"

// GSTRate is the flat tax applied to the subtotal.
var GSTRate = decimal.NewFromFloat(0.18)

// Shipping is free; kept as a named value so it shows up in totals.
var Shipping = decimal.Zero

var hundred = decimal.NewFromInt(100)

// Line is the minimum a caller must supply per cart line.
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Items    int             `json:"items"`
}

// Compute returns subtotal, tax and grand total for lines. Tax and total are
// each rounded half-up to whole currency units from the exact subtotal, so
// Total is not always Subtotal+Tax.
func Compute(lines []Line) Totals {
	sub := decimal.Zero
	items := 0
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		sub = sub.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		items += l.Quantity
	}
	return Totals{
		Subtotal: sub,
		Tax:      roundHalfUp(sub.Mul(GSTRate)),
		Shipping: Shipping,
		Total:    roundHalfUp(sub.Mul(decimal.NewFromInt(1).Add(GSTRate))).Add(Shipping),
		Items:    items,
	}
}

// ToMinorUnits converts a whole-unit amount to paise.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(paise int64) decimal.Decimal {
	return decimal.NewFromInt(paise).Div(hundred)
}

func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	// amounts are never negative, so away-from-zero is half-up
	return d.Round(0)
}
