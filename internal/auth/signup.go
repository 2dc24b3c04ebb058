package auth

import (
	"strings"

	"github.com/wichananm65/pharmachain-portal/internal/validate"
)

// Step is a signup wizard stage.
type Step string

const (
	StepBasicInfo         Step = "BASIC_INFO"
	StepEmailVerification Step = "EMAIL_VERIFICATION"
	StepRoleSelection     Step = "ROLE_SELECTION"
	StepDocumentUpload    Step = "DOCUMENT_UPLOAD"
	StepComplete          Step = "COMPLETE"
)

// Document fields accepted during signup. Only the GST certificate is required.
const (
	DocAadhaar        = "aadhaar"
	DocPAN            = "pan"
	DocGSTCertificate = "gstCertificate"
	DocDrugLicense    = "drugLicense"
)

var signupDocuments = []string{DocAadhaar, DocPAN, DocGSTCertificate, DocDrugLicense}

type BasicInfo struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
	Address      string `json:"address"`
}

func (b *BasicInfo) normalize() {
	b.Name = strings.TrimSpace(b.Name)
	b.Phone = strings.TrimSpace(b.Phone)
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	b.BusinessName = strings.TrimSpace(b.BusinessName)
	b.Address = strings.TrimSpace(b.Address)
}

func (b BasicInfo) Validate() error {
	errs := ValidationError{}
	if b.Name == "" {
		errs["name"] = "Name is required"
	}
	if !validate.Phone(b.Phone) {
		errs["phone"] = "Valid 10-digit phone number is required"
	}
	if !validate.Email(b.Email) {
		errs["email"] = "Valid email is required"
	}
	if !validate.Password(b.Password) {
		errs["password"] = "Password must be at least 6 characters"
	}
	if b.BusinessName == "" {
		errs["businessName"] = "Business name is required"
	}
	if b.Address == "" {
		errs["address"] = "Address is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Draft is the wizard state kept under the signup session key.
type Draft struct {
	Step   Step      `json:"step"`
	Info   BasicInfo `json:"info"`
	UserID string    `json:"userId,omitempty"`
	Role   string    `json:"role,omitempty"`
}

// View hides the password before the draft goes back to the browser.
func (d Draft) View() Draft {
	d.Info.Password = ""
	return d
}

func (d Draft) expect(s Step) error {
	if d.Step != s {
		return ErrWrongStep
	}
	return nil
}
