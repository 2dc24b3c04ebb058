package product

import (
	"context"
	"time"

	"github.com/wichananm65/pharmachain-portal/internal/upload"
)

// Gateway manages listings on the backend.
type Gateway interface {
	ListProducts(ctx context.Context, token string, q ListQuery) (Page, error)
	CreateProduct(ctx context.Context, token string, f Form, image *upload.File) (Product, error)
	UpdateProduct(ctx context.Context, token, id string, f Form) (Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
}

// ValidationError carries per-field messages.
type ValidationError map[string]string

func (ValidationError) Error() string { return ErrInvalid.Error() }

func (ValidationError) Unwrap() error { return ErrInvalid }

type Service struct {
	gw  Gateway
	now func() time.Time
}

func NewService(gw Gateway) *Service {
	return &Service{gw: gw, now: time.Now}
}

func (s *Service) List(ctx context.Context, token string, q ListQuery) (Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}
	p, err := s.gw.ListProducts(ctx, token, q)
	if err != nil {
		return Page{}, err
	}
	if p.Products == nil {
		p.Products = []Product{}
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, token string, f Form, image *upload.File) (Product, error) {
	if errs := f.Validate(s.now()); len(errs) > 0 {
		return Product{}, ValidationError(errs)
	}
	return s.gw.CreateProduct(ctx, token, f, image)
}

func (s *Service) Update(ctx context.Context, token, id string, f Form) (Product, error) {
	if errs := f.Validate(s.now()); len(errs) > 0 {
		return Product{}, ValidationError(errs)
	}
	return s.gw.UpdateProduct(ctx, token, id, f)
}

func (s *Service) Delete(ctx context.Context, token, id string) error {
	return s.gw.DeleteProduct(ctx, token, id)
}
