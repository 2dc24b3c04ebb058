package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/session"
)

type Handler struct {
	service  *Service
	sessions session.Repository
}

func NewHandler(s *Service, sessions session.Repository) *Handler {
	return &Handler{service: s, sessions: sessions}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/dashboard", Require(ViewOverview), h.overview)
	app.Get("/api/v1/dashboard/views", h.views)
}

func (h *Handler) views(c *fiber.Ctx) error {
	claims, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"role": role, "views": role.Views(), "sells": role.Sells(), "buys": role.Buys()})
}

func (h *Handler) overview(c *fiber.Ctx) error {
	claims, tok, err := session.Upstream(c, h.sessions, session.KeyUserToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	// Require has already checked the role.
	role, _ := ParseRole(claims.Role)
	ov, err := h.service.Overview(c.UserContext(), tok, role)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(ov)
}
