package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/wichananm65/pharmachain-portal/internal/upload"
	"github.com/wichananm65/pharmachain-portal/internal/validate"
)

var (
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrWrongStep          = errors.New("signup is not at this step")
	ErrNoSignup           = errors.New("no signup in progress")
)

// Purpose tells the backend which flow an OTP belongs to.
type Purpose string

const (
	PurposeSignup        Purpose = "signup"
	PurposePasswordReset Purpose = "password_reset"
)

// User is the account summary returned with a backend login.
type User struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BusinessName string `json:"businessName"`
	Role         string `json:"role"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Registration is what the backend needs to create an account.
type Registration struct {
	BasicInfo
	OTP string `json:"otp"`
}

type Gateway interface {
	Login(ctx context.Context, phone, password string) (LoginResult, error)
	SendOTP(ctx context.Context, email string, purpose Purpose) error
	VerifyOTP(ctx context.Context, email, otp string, purpose Purpose) error
	Register(ctx context.Context, r Registration) (string, error)
	ChooseRole(ctx context.Context, userID, role string) error
	UploadSignupDocuments(ctx context.Context, userID string, files []*upload.File) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// ValidationError maps form fields to messages.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	return "invalid fields: " + strings.Join(keys, ", ")
}

type Credentials struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	errs := ValidationError{}
	if !validate.Phone(strings.TrimSpace(c.Phone)) {
		errs["phone"] = "Valid 10-digit phone number is required"
	}
	if c.Password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PasswordReset struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (p PasswordReset) Validate() error {
	errs := ValidationError{}
	if !validate.Email(p.Email) {
		errs["email"] = "Valid email is required"
	}
	if !validate.Password(p.NewPassword) {
		errs["newPassword"] = "Password must be at least 6 characters"
	} else if p.NewPassword != p.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
