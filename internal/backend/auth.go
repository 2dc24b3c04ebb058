package backend

import (
	"context"
	"net/http"

	"github.com/wichananm65/pharmachain-portal/internal/auth"
	"github.com/wichananm65/pharmachain-portal/internal/upload"
)

// AuthAPI covers the unauthenticated /api/auth endpoints.
type AuthAPI struct {
	c *Client
}

func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

func (a *AuthAPI) Login(ctx context.Context, phone, password string) (auth.LoginResult, error) {
	var out auth.LoginResult
	err := a.c.do(ctx, http.MethodPost, "/api/auth/login", "", nil, map[string]string{"phone": phone, "password": password}, &out)
	return out, err
}

func (a *AuthAPI) SendOTP(ctx context.Context, email string, purpose auth.Purpose) error {
	body := map[string]string{"email": email, "type": string(purpose)}
	return a.c.do(ctx, http.MethodPost, "/api/auth/send-email-otp", "", nil, body, nil)
}

func (a *AuthAPI) VerifyOTP(ctx context.Context, email, otp string, purpose auth.Purpose) error {
	body := map[string]string{"email": email, "otp": otp, "type": string(purpose)}
	return a.c.do(ctx, http.MethodPost, "/api/auth/verify-email-otp", "", nil, body, nil)
}

func (a *AuthAPI) Register(ctx context.Context, r auth.Registration) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	err := a.c.do(ctx, http.MethodPost, "/api/auth/register", "", nil, r, &out)
	return out.UserID, err
}

func (a *AuthAPI) ChooseRole(ctx context.Context, userID, role string) error {
	return a.c.do(ctx, http.MethodPost, "/api/auth/choose-role", "", nil, map[string]string{"id": userID, "role": role}, nil)
}

func (a *AuthAPI) UploadSignupDocuments(ctx context.Context, userID string, files []*upload.File) error {
	_, err := a.c.doMultipart(ctx, http.MethodPost, "/api/auth/upload-documents", "", map[string]string{"userId": userID}, files)
	return err
}

func (a *AuthAPI) RequestPasswordReset(ctx context.Context, email string) error {
	return a.c.do(ctx, http.MethodPost, "/api/auth/request-password-reset", "", nil, map[string]string{"email": email}, nil)
}

func (a *AuthAPI) ResetPassword(ctx context.Context, email, newPassword string) error {
	body := map[string]string{"email": email, "newPassword": newPassword}
	return a.c.do(ctx, http.MethodPost, "/api/auth/reset-password", "", nil, body, nil)
}
