package events

import (
	"context"

	"github.com/gofiber/fiber/v2/log"
)

// LogPublisher writes events to the application log. Used when no brokers
// are configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	log.Infow("checkout event",
		"type", e.Type,
		"session", e.SessionID,
		"order", e.OrderID,
		"amount", e.Amount.String(),
		"reason", e.Reason,
	)
	return nil
}

func (LogPublisher) Close() error { return nil }
