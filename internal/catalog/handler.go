package catalog

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

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/medicines/categories", h.getCategories)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/medicines", h.browse)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	return c.JSON(DosageForms)
}

func (h *Handler) browse(c *fiber.Ctx) error {
	_, token, err := session.Upstream(c, h.sessions, session.KeyUserToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	var f Filter
	if err := c.QueryParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if f.Category != "" && !IsDosageForm(f.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown category"})
	}

	res, err := h.service.Browse(c.UserContext(), token, f)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(res)
}
