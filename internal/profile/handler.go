package profile

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/session"
	"github.com/wichananm65/pharmachain-portal/internal/upload"
)

type Handler struct {
	service  *Service
	sessions session.Repository
}

func NewHandler(service *Service, sessions session.Repository) *Handler {
	return &Handler{service: service, sessions: sessions}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/profile", h.getProfile)
	// the update accepts the full editable set; PATCH is kept for partial clients
	app.Put("/api/v1/profile", h.updateProfile)
	app.Patch("/api/v1/profile", h.updateProfile)
	app.Put("/api/v1/profile/password", h.changePassword)
	app.Post("/api/v1/profile/documents", h.uploadDocuments)
}

func respond(c *fiber.Ctx, err error) error {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ve})
	case upload.IsClientError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return apierr.Respond(c, err)
	}
}

func (h *Handler) token(c *fiber.Ctx) (string, error) {
	_, tok, err := session.Upstream(c, h.sessions, session.KeyUserToken)
	return tok, err
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	p, err := h.service.Get(c.UserContext(), tok)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(Update)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	p, err := h.service.Update(c.UserContext(), tok, *payload)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) changePassword(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(PasswordChange)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.ChangePassword(c.UserContext(), tok, *payload); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

func (h *Handler) uploadDocuments(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	gst, err := upload.FromForm(c, FieldGSTCertificate, false, upload.Documents)
	if err != nil {
		return respond(c, err)
	}
	license, err := upload.FromForm(c, FieldDrugLicense, false, upload.Documents)
	if err != nil {
		return respond(c, err)
	}
	if err := h.service.UploadDocuments(c.UserContext(), tok, gst, license); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Documents uploaded"})
}
