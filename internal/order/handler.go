package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/session"
)

// Handler serves the orders-placed and orders-received views.
type Handler struct {
	service  *Service
	sessions session.Repository
}

func NewHandler(s *Service, sessions session.Repository) *Handler {
	return &Handler{service: s, sessions: sessions}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders/placed", h.getPlaced)
	app.Get("/api/v1/orders/received", h.getReceived)
	app.Put("/api/v1/orders/:id/status", h.updateStatus)
	app.Get("/api/v1/orders/:id/track", h.track)
}

type statusRequest struct {
	Status        Status `json:"status"`
	CurrentStatus Status `json:"currentStatus,omitempty"`
}

func respond(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	case errors.Is(err, ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return apierr.Respond(c, err)
	}
}

func (h *Handler) token(c *fiber.Ctx) (string, error) {
	_, tok, err := session.Upstream(c, h.sessions, session.KeyUserToken)
	return tok, err
}

func (h *Handler) getPlaced(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orders, err := h.service.Placed(c.UserContext(), tok)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *Handler) getReceived(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	var q Query
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	page, err := h.service.Received(c.UserContext(), tok, q)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(page)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	id := c.Params("id")
	if err := h.service.UpdateStatus(c.UserContext(), tok, id, payload.CurrentStatus, payload.Status); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "status": payload.Status, "next": payload.Status.Next()})
}

func (h *Handler) track(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	tr, err := h.service.Track(c.UserContext(), tok, c.Params("id"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(tr)
}
