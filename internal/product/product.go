package product

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalid = errors.New("invalid product")

// Product is a seller's listing as the backend returns it.
type Product struct {
	ID           string          `json:"_id"`
	ProductName  string          `json:"productName"`
	Name         string          `json:"name,omitempty"`
	BatchNumber  string          `json:"batchNumber"`
	ExpiryDate   string          `json:"expiryDate"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	MinQuantity  int             `json:"minQuantity"`
	Category     string          `json:"category"`
	Description  string          `json:"description,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Image        string          `json:"image,omitempty"`
	Status       string          `json:"status,omitempty"`
	UpdatedAt    string          `json:"updatedAt,omitempty"`
}

// AllowedCategories contains the therapeutic categories a product may be listed under.
var AllowedCategories = []string{
	"Analgesic",
	"Antibiotic",
	"Antidiabetic",
	"Vitamin",
	"Cardiovascular",
	"Respiratory",
	"Gastrointestinal",
	"Other",
}

// Form is the add-product / edit-product payload. It binds from JSON or
// from a multipart form carrying an optional image.
type Form struct {
	ProductName  string          `json:"productName" form:"productName"`
	BatchNumber  string          `json:"batchNumber" form:"batchNumber"`
	ExpiryDate   string          `json:"expiryDate" form:"expiryDate"`
	Price        decimal.Decimal `json:"price" form:"price"`
	Quantity     int             `json:"quantity" form:"quantity"`
	MinQuantity  int             `json:"minQuantity" form:"minQuantity"`
	Category     string          `json:"category" form:"category"`
	Description  string          `json:"description,omitempty" form:"description"`
	Manufacturer string          `json:"manufacturer,omitempty" form:"manufacturer"`
}

const dateLayout = "2006-01-02"

// Validate returns every problem at once, keyed by field.
func (f *Form) Validate(now time.Time) map[string]string {
	errs := map[string]string{}
	if f.ProductName == "" {
		errs["productName"] = "productName is required"
	}
	if f.BatchNumber == "" {
		errs["batchNumber"] = "batchNumber is required"
	}
	if f.ExpiryDate == "" {
		errs["expiryDate"] = "expiryDate is required"
	} else if exp, err := time.Parse(dateLayout, f.ExpiryDate); err != nil {
		errs["expiryDate"] = "expiryDate must be YYYY-MM-DD"
	} else if !exp.After(now.Truncate(24 * time.Hour)) {
		errs["expiryDate"] = "expiryDate must be in the future"
	}
	if !f.Price.IsPositive() {
		errs["price"] = "price must be > 0"
	}
	if f.Quantity < 0 {
		errs["quantity"] = "quantity must be >= 0"
	}
	if f.MinQuantity == 0 {
		f.MinQuantity = 1
	}
	if f.MinQuantity < 1 {
		errs["minQuantity"] = "minQuantity must be >= 1"
	}
	if !isAllowedCategory(f.Category) {
		errs["category"] = "invalid category"
	}
	return errs
}

func isAllowedCategory(c string) bool {
	for _, a := range AllowedCategories {
		if a == c {
			return true
		}
	}
	return false
}

// ListQuery pages through the caller's own listings.
type ListQuery struct {
	Search string `query:"search"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

type Page struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
