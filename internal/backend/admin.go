package backend

import (
	"context"
	"net/http"

	"github.com/wichananm65/pharmachain-portal/internal/admin"
)

// AdminAPI covers /api/admin. Calls carry the admin token, not a user token.
type AdminAPI struct {
	c *Client
}

func (c *Client) Admin() *AdminAPI { return &AdminAPI{c: c} }

func (a *AdminAPI) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := a.c.do(ctx, http.MethodPost, "/api/admin/login", "", nil, map[string]string{"email": email, "password": password}, &out)
	return out.Token, err
}

func (a *AdminAPI) Users(ctx context.Context, token string) ([]admin.User, error) {
	return a.list(ctx, "/api/admin/users", token)
}

func (a *AdminAPI) UnverifiedUsers(ctx context.Context, token string) ([]admin.User, error) {
	return a.list(ctx, "/api/admin/unverified-users", token)
}

func (a *AdminAPI) list(ctx context.Context, path, token string) ([]admin.User, error) {
	raw, err := a.c.call(ctx, http.MethodGet, path, token, nil, nil)
	if err != nil {
		return nil, err
	}
	var users []admin.User
	return users, unwrap(raw, "users", &users)
}

func (a *AdminAPI) VerifyUser(ctx context.Context, token, userID string, d admin.Decision) error {
	body := map[string]string{"userId": userID, "status": string(d)}
	return a.c.do(ctx, http.MethodPost, "/api/admin/verify-user", token, nil, body, nil)
}
