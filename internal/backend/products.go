package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wichananm65/pharmachain-portal/internal/product"
	"github.com/wichananm65/pharmachain-portal/internal/upload"
)

func (c *Client) ListProducts(ctx context.Context, token string, lq product.ListQuery) (product.Page, error) {
	q := url.Values{}
	if lq.Search != "" {
		q.Set("search", lq.Search)
	}
	if lq.Page > 0 {
		q.Set("page", strconv.Itoa(lq.Page))
	}
	if lq.Limit > 0 {
		q.Set("limit", strconv.Itoa(lq.Limit))
	}
	var p product.Page
	err := c.do(ctx, http.MethodGet, "/api/user/products", token, q, nil, &p)
	return p, err
}

func formFields(f product.Form) map[string]string {
	return map[string]string{
		"productName":  f.ProductName,
		"batchNumber":  f.BatchNumber,
		"expiryDate":   f.ExpiryDate,
		"price":        f.Price.String(),
		"quantity":     strconv.Itoa(f.Quantity),
		"minQuantity":  strconv.Itoa(f.MinQuantity),
		"category":     f.Category,
		"description":  f.Description,
		"manufacturer": f.Manufacturer,
	}
}

// CreateProduct posts the listing as multipart so the optional image can
// travel with it.
func (c *Client) CreateProduct(ctx context.Context, token string, f product.Form, image *upload.File) (product.Product, error) {
	var files []*upload.File
	if image != nil {
		img := *image
		img.Field = "image"
		files = append(files, &img)
	}
	raw, err := c.doMultipart(ctx, http.MethodPost, "/api/user/products", token, formFields(f), files)
	if err != nil {
		return product.Product{}, err
	}
	var p product.Product
	return p, unwrap(raw, "product", &p)
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, f product.Form) (product.Product, error) {
	raw, err := c.call(ctx, http.MethodPut, "/api/user/products/"+url.PathEscape(id), token, nil, f)
	if err != nil {
		return product.Product{}, err
	}
	var p product.Product
	return p, unwrap(raw, "product", &p)
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/user/products/"+url.PathEscape(id), token, nil, nil, nil)
}
