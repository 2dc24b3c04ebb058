package profile

import (
	"errors"
	"strings"

	"github.com/wichananm65/pharmachain-portal/internal/validate"
)

var ErrInvalid = errors.New("invalid profile data")

// Profile is the business account as the backend stores it.
type Profile struct {
	ID                string `json:"_id,omitempty"`
	BusinessName      string `json:"businessName"`
	ContactPerson     string `json:"contactPerson"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Role              string `json:"role"`
	Address           string `json:"address"`
	GSTNumber         string `json:"gstNumber"`
	DrugLicenseNumber string `json:"drugLicenseNumber"`
	PANNumber         string `json:"panNumber"`
	IsVerified        bool   `json:"isVerified"`
	Status            string `json:"status,omitempty"`
}

// Update holds the editable fields. Email and role are fixed at signup.
type Update struct {
	BusinessName      string `json:"businessName"`
	ContactPerson     string `json:"contactPerson"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	GSTNumber         string `json:"gstNumber"`
	DrugLicenseNumber string `json:"drugLicenseNumber"`
	PANNumber         string `json:"panNumber"`
}

// ValidationError carries per-field messages.
type ValidationError map[string]string

func (ValidationError) Error() string { return ErrInvalid.Error() }

func (ValidationError) Unwrap() error { return ErrInvalid }

func (u *Update) Validate() error {
	u.GSTNumber = strings.ToUpper(strings.TrimSpace(u.GSTNumber))
	u.PANNumber = strings.ToUpper(strings.TrimSpace(u.PANNumber))
	u.Phone = strings.TrimSpace(u.Phone)

	errs := ValidationError{}
	if strings.TrimSpace(u.BusinessName) == "" {
		errs["businessName"] = "businessName is required"
	}
	if u.Phone != "" && !validate.Phone(u.Phone) {
		errs["phone"] = "phone must be 10 digits"
	}
	if u.GSTNumber != "" && !validate.GSTIN(u.GSTNumber) {
		errs["gstNumber"] = "gstNumber is not a valid GSTIN"
	}
	if u.PANNumber != "" && !validate.PAN(u.PANNumber) {
		errs["panNumber"] = "panNumber is not a valid PAN"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (p PasswordChange) Validate() error {
	errs := ValidationError{}
	if p.CurrentPassword == "" {
		errs["currentPassword"] = "currentPassword is required"
	}
	if !validate.Password(p.NewPassword) {
		errs["newPassword"] = "newPassword must be at least 6 characters"
	}
	if p.NewPassword != p.ConfirmPassword {
		errs["confirmPassword"] = "passwords do not match"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
