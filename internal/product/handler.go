package product

import (
	"errors"
	"strings"

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

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products/categories", h.getCategories)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.getProducts)
	app.Post("/api/v1/products", h.createProduct)
	app.Put("/api/v1/products/:id", h.updateProduct)
	app.Delete("/api/v1/products/:id", h.deleteProduct)
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

func (h *Handler) getCategories(c *fiber.Ctx) error {
	return c.JSON(AllowedCategories)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	var q ListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	page, err := h.service.List(c.UserContext(), tok, q)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(page)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	f := new(Form)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	var image *upload.File
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		image, err = upload.FromForm(c, "image", false, upload.Images)
		if err != nil {
			return respond(c, err)
		}
	}

	created, err := h.service.Create(c.UserContext(), tok, *f, image)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	f := new(Form)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	updated, err := h.service.Update(c.UserContext(), tok, c.Params("id"), *f)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	tok, err := h.token(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.Delete(c.UserContext(), tok, c.Params("id")); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
