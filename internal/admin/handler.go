package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/session"
)

type Handler struct {
	service  *Service
	sessions session.Repository
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service, sessions session.Repository) *Handler {
	return &Handler{service: service, sessions: sessions}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/admin/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/admin/users", RequireAdmin, h.users)
	app.Get("/api/v1/admin/users/unverified", RequireAdmin, h.unverified)
	app.Post("/api/v1/admin/users/:id/verify", RequireAdmin, h.verify)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	token, err := h.service.Login(c.UserContext(), payload.Email, payload.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"token": token, "redirect": "/admin/dashboard"})
}

func (h *Handler) token(c *fiber.Ctx) (string, error) {
	_, tok, err := session.Upstream(c, h.sessions, session.KeyAdminToken)
	return tok, err
}

func (h *Handler) users(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	users, err := h.service.Users(c.UserContext(), tok)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(users)
}

func (h *Handler) unverified(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	users, err := h.service.Unverified(c.UserContext(), tok)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *Handler) verify(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	id := c.Params("id")
	d, err := h.service.Verify(c.UserContext(), tok, id, payload.Status)
	if errors.Is(err, ErrInvalidDecision) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"_id": id, "status": d})
}
