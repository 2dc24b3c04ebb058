package catalog

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("medicine not found")

// Gateway fetches medicines from the remote API.
type Gateway interface {
	Medicines(ctx context.Context, token string, f Filter) ([]Item, error)
}

// Service browses the catalog. Identical requests in flight for the same
// caller share one upstream call.
type Service struct {
	gw    Gateway
	group singleflight.Group
}

func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

func (s *Service) Browse(ctx context.Context, token string, f Filter) (Result, error) {
	items, err := s.medicines(ctx, token, f)
	if err != nil {
		return Result{}, err
	}
	return Result{Medicines: items, Manufacturers: Manufacturers(items)}, nil
}

// Lookup returns the current catalog entry for id.
func (s *Service) Lookup(ctx context.Context, token, id string) (Item, error) {
	items, err := s.medicines(ctx, token, Filter{})
	if err != nil {
		return Item{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

// medicines runs the upstream call detached from ctx, since callers that
// joined the flight must not fail because the first one went away.
func (s *Service) medicines(ctx context.Context, token string, f Filter) ([]Item, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(token+"\x00"+f.key(), func() (interface{}, error) {
		return s.gw.Medicines(shared, token, f)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		items := res.Val.([]Item)
		if items == nil {
			items = []Item{}
		}
		return items, nil
	}
}

// Manufacturers returns the distinct manufacturers of items in first-seen order.
func Manufacturers(items []Item) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0)
	for _, it := range items {
		if it.Manufacturer == "" {
			continue
		}
		if _, ok := seen[it.Manufacturer]; ok {
			continue
		}
		seen[it.Manufacturer] = struct{}{}
		out = append(out, it.Manufacturer)
	}
	return out
}
