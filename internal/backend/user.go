package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wichananm65/pharmachain-portal/internal/catalog"
	"github.com/wichananm65/pharmachain-portal/internal/dashboard"
	"github.com/wichananm65/pharmachain-portal/internal/profile"
	"github.com/wichananm65/pharmachain-portal/internal/upload"
)

func (c *Client) Medicines(ctx context.Context, token string, f catalog.Filter) ([]catalog.Item, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Manufacturer != "" {
		q.Set("manufacturer", f.Manufacturer)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	var out struct {
		Medicines []catalog.Item `json:"medicines"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/user/medicines", token, q, nil, &out); err != nil {
		return nil, err
	}
	return out.Medicines, nil
}

func (c *Client) Dashboard(ctx context.Context, token string) (dashboard.Metrics, error) {
	var m dashboard.Metrics
	err := c.do(ctx, http.MethodGet, "/api/user/dashboard", token, nil, nil, &m)
	return m, err
}

func (c *Client) Profile(ctx context.Context, token string) (profile.Profile, error) {
	raw, err := c.call(ctx, http.MethodGet, "/api/user/profile", token, nil, nil)
	if err != nil {
		return profile.Profile{}, err
	}
	var p profile.Profile
	return p, unwrap(raw, "user", &p)
}

func (c *Client) UpdateProfile(ctx context.Context, token string, u profile.Update) (profile.Profile, error) {
	raw, err := c.call(ctx, http.MethodPut, "/api/user/profile", token, nil, u)
	if err != nil {
		return profile.Profile{}, err
	}
	var p profile.Profile
	if err := unwrap(raw, "user", &p); err != nil {
		return profile.Profile{}, err
	}
	// some deployments answer with only a message
	if p.BusinessName == "" && p.Email == "" {
		return c.Profile(ctx, token)
	}
	return p, nil
}

func (c *Client) ChangePassword(ctx context.Context, token, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next, "confirmPassword": next}
	return c.do(ctx, http.MethodPut, "/api/user/password", token, nil, body, nil)
}

func (c *Client) UploadDocuments(ctx context.Context, token string, files []*upload.File) error {
	_, err := c.doMultipart(ctx, http.MethodPost, "/api/user/documents", token, nil, files)
	return err
}
