package order

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status change not allowed")
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
)

// sellerTransitions lists the moves a seller may make on a received order.
var sellerTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusShipped},
	StatusShipped:  {StatusDelivered},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected, StatusShipped, StatusDelivered:
		return st, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range sellerTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Next returns the statuses a seller can move s to.
func (s Status) Next() []Status {
	return append([]Status(nil), sellerTransitions[s]...)
}

type Item struct {
	ProductID string          `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID            string          `json:"_id"`
	Buyer         string          `json:"buyer,omitempty"`
	BuyerName     string          `json:"buyerName,omitempty"`
	Seller        string          `json:"seller,omitempty"`
	Contact       string          `json:"contact,omitempty"`
	Products      []Item          `json:"products"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        Status          `json:"status"`
	PaymentStatus string          `json:"paymentStatus,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	OrderDate     string          `json:"orderDate,omitempty"`
}

// Query filters the received-orders list.
type Query struct {
	Status Status `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

const (
	defaultLimit = 10
	maxLimit     = 100
)

func (q *Query) normalize() error {
	if q.Status == "all" {
		q.Status = ""
	}
	if q.Status != "" {
		if _, err := ParseStatus(string(q.Status)); err != nil {
			return err
		}
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return nil
}

type Page struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}
