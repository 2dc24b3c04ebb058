package cart

import (
	"github.com/shopspring/decimal"
	"github.com/wichananm65/pharmachain-portal/internal/catalog"
	"github.com/wichananm65/pharmachain-portal/internal/pricing"
)

// Product is the catalog entry a line is created from.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Manufacturer string          `json:"manufacturer"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	MinQuantity  int             `json:"minQuantity"`
	Expiry       string          `json:"expiry,omitempty"`
	Category     string          `json:"category,omitempty"`
	Type         string          `json:"type,omitempty"`
}

func ProductOf(it catalog.Item) Product {
	return Product{
		ID:           it.ID,
		Name:         it.Name,
		Manufacturer: it.Manufacturer,
		Price:        it.Price,
		Stock:        it.Stock,
		MinQuantity:  it.MinQuantity,
		Expiry:       it.Expiry,
		Category:     it.Category,
		Type:         it.Type,
	}
}

// Line is one product pending purchase.
// MinQuantity <= Quantity <= Stock holds for every stored line.
type Line struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	MinQuantity  int             `json:"minQuantity"`
	Stock        int             `json:"stock"`
	Expiry       string          `json:"expiry,omitempty"`
	Category     string          `json:"category,omitempty"`
	Type         string          `json:"type,omitempty"`
}

// Amount is price times quantity.
func (l Line) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// View is what the cart endpoints answer with.
type View struct {
	Items    []Line         `json:"items"`
	Totals   pricing.Totals `json:"totals"`
	Redirect string         `json:"redirect,omitempty"`
}

// Totals runs the pricing calculator over lines.
func Totals(lines []Line) pricing.Totals {
	in := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		in = append(in, pricing.Line{Price: l.Price, Quantity: l.Quantity})
	}
	return pricing.Compute(in)
}

func NewView(lines []Line) View {
	if lines == nil {
		lines = []Line{}
	}
	return View{Items: lines, Totals: Totals(lines)}
}
