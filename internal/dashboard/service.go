package dashboard

import (
	"context"
	"time"
)

type Gateway interface {
	Dashboard(ctx context.Context, token string) (Metrics, error)
}

type Service struct {
	gw  Gateway
	now func() time.Time
}

func NewService(gw Gateway) *Service {
	return &Service{gw: gw, now: time.Now}
}

func (s *Service) Overview(ctx context.Context, token string, role Role) (Overview, error) {
	m, err := s.gw.Dashboard(ctx, token)
	if err != nil {
		return Overview{}, err
	}
	if m.RecentOrders == nil {
		m.RecentOrders = []RecentOrder{}
	}
	if m.Products == nil {
		m.Products = []StockItem{}
	}
	return Overview{
		Role:          role,
		Views:         role.Views(),
		Metrics:       m,
		RevenueLakh:   RevenueInLakh(m.MonthlyRevenue),
		Notifications: Notifications(m, s.now()),
	}, nil
}
