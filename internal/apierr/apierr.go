package apierr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrUnavailable is returned when the backend cannot be reached or the
// circuit breaker is open.
var ErrUnavailable = errors.New("backend unavailable")

// Error is a non-2xx answer from the PharmaChain backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// Status maps err to the HTTP status the portal should answer with.
func Status(err error) int {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Status >= 500 {
			return fiber.StatusBadGateway
		}
		return apiErr.Status
	case errors.Is(err, ErrUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the message the backend sent, falling back to err.Error().
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// Respond writes err as a {"message": ...} JSON body.
func Respond(c *fiber.Ctx, err error) error {
	return c.Status(Status(err)).JSON(fiber.Map{"message": Message(err)})
}
