// Package events publishes checkout lifecycle events.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	PaymentConfirmed   Type = "payment.confirmed"
	PaymentFailed      Type = "payment.failed"
	VerificationFailed Type = "verification.failed"
)

type Event struct {
	Type          Type            `json:"type"`
	SessionID     string          `json:"sessionId"`
	UserID        string          `json:"userId,omitempty"`
	OrderID       string          `json:"orderId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}
