package order

import "context"

// Gateway reads and updates orders on the backend.
type Gateway interface {
	PlacedOrders(ctx context.Context, token string) ([]Order, error)
	ReceivedOrders(ctx context.Context, token string, q Query) (Page, error)
	UpdateOrderStatus(ctx context.Context, token, id string, to Status) error
}

type Service struct {
	gw Gateway
}

func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

func (s *Service) Placed(ctx context.Context, token string) ([]Order, error) {
	orders, err := s.gw.PlacedOrders(ctx, token)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

func (s *Service) Received(ctx context.Context, token string, q Query) (Page, error) {
	if err := q.normalize(); err != nil {
		return Page{}, err
	}
	p, err := s.gw.ReceivedOrders(ctx, token, q)
	if err != nil {
		return Page{}, err
	}
	if p.Orders == nil {
		p.Orders = []Order{}
	}
	p.Page, p.Limit = q.Page, q.Limit
	return p, nil
}

// UpdateStatus moves a received order to `to`. When the caller knows the
// current status the move is checked locally first; the backend has the
// final say either way.
func (s *Service) UpdateStatus(ctx context.Context, token, id string, from, to Status) error {
	if _, err := ParseStatus(string(to)); err != nil {
		return err
	}
	if to == StatusPending {
		return ErrInvalidTransition
	}
	if from != "" {
		if _, err := ParseStatus(string(from)); err != nil {
			return err
		}
		if !from.CanTransitionTo(to) {
			return ErrInvalidTransition
		}
	}
	return s.gw.UpdateOrderStatus(ctx, token, id, to)
}

// Track finds one of the caller's placed orders and builds its timeline.
func (s *Service) Track(ctx context.Context, token, id string) (Tracking, error) {
	orders, err := s.gw.PlacedOrders(ctx, token)
	if err != nil {
		return Tracking{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return Track(o), nil
		}
	}
	return Tracking{}, ErrNotFound
}
