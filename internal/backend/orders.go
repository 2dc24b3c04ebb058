package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wichananm65/pharmachain-portal/internal/checkout"
	"github.com/wichananm65/pharmachain-portal/internal/order"
)

func (c *Client) CreateOrder(ctx context.Context, token string, req checkout.OrderRequest) (checkout.PaymentSession, error) {
	var out struct {
		RazorpayOrder checkout.PaymentSession `json:"razorpayOrder"`
	}
	err := c.do(ctx, http.MethodPost, "/api/user/orders", token, nil, req, &out)
	return out.RazorpayOrder, err
}

func (c *Client) VerifyPayment(ctx context.Context, token string, cb checkout.Callback) (checkout.Confirmation, error) {
	raw, err := c.call(ctx, http.MethodPost, "/api/user/orders/verify", token, nil, cb)
	if err != nil {
		return checkout.Confirmation{}, err
	}
	var conf checkout.Confirmation
	return conf, unwrap(raw, "order", &conf)
}

// PlacedOrders accepts both a bare array and an {orders: [...]} envelope.
func (c *Client) PlacedOrders(ctx context.Context, token string) ([]order.Order, error) {
	raw, err := c.call(ctx, http.MethodGet, "/api/user/orders/placed", token, nil, nil)
	if err != nil {
		return nil, err
	}
	var orders []order.Order
	return orders, unwrap(raw, "orders", &orders)
}

func (c *Client) ReceivedOrders(ctx context.Context, token string, oq order.Query) (order.Page, error) {
	q := url.Values{}
	if oq.Status != "" {
		q.Set("status", string(oq.Status))
	}
	q.Set("page", strconv.Itoa(oq.Page))
	q.Set("limit", strconv.Itoa(oq.Limit))
	var p order.Page
	err := c.do(ctx, http.MethodGet, "/api/user/orders", token, q, nil, &p)
	return p, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, id string, to order.Status) error {
	body := map[string]order.Status{"status": to}
	return c.do(ctx, http.MethodPut, "/api/user/orders/"+url.PathEscape(id), token, nil, body, nil)
}
