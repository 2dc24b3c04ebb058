package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidShipping = errors.New("invalid shipping info")

// ShippingInfo is captured once per checkout attempt and passed to the
// backend as is.
type ShippingInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

func (s *ShippingInfo) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.TrimSpace(s.State)
	s.Pincode = strings.TrimSpace(s.Pincode)
}

// Validate checks required fields only.
func (s ShippingInfo) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", s.Name},
		{"phone", s.Phone},
		{"address", s.Address},
		{"city", s.City},
		{"state", s.State},
		{"pincode", s.Pincode},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidShipping, strings.Join(missing, ", "))
	}
	return nil
}
