package catalog

import "github.com/shopspring/decimal"

// Item is a medicine offered by another seller.
type Item struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Manufacturer string          `json:"manufacturer"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	MinQuantity  int             `json:"minQuantity"`
	Expiry       string          `json:"expiry"`
	Category     string          `json:"category"`
	Type         string          `json:"type,omitempty"`
}

// Filter narrows a browse request. Empty fields match everything.
type Filter struct {
	Search       string `query:"search"`
	Manufacturer string `query:"manufacturer"`
	Category     string `query:"category"`
}

func (f Filter) key() string {
	return f.Search + "\x00" + f.Manufacturer + "\x00" + f.Category
}

// Result is one browse page plus the manufacturers found in it.
type Result struct {
	Medicines     []Item   `json:"medicines"`
	Manufacturers []string `json:"manufacturers"`
}

// DosageForm is a category value accepted by the medicines filter.
type DosageForm struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var DosageForms = []DosageForm{
	{Value: "tablet", Label: "Tablet"},
	{Value: "capsule", Label: "Capsule"},
	{Value: "syrup", Label: "Syrup"},
	{Value: "injection", Label: "Injection"},
	{Value: "ointment", Label: "Ointment"},
	{Value: "drops", Label: "Drops"},
	{Value: "powder", Label: "Powder"},
	{Value: "inhaler", Label: "Inhaler"},
}

// IsDosageForm reports whether v is one of DosageForms.
func IsDosageForm(v string) bool {
	for _, f := range DosageForms {
		if f.Value == v {
			return true
		}
	}
	return false
}
