package cart

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/catalog"
	"github.com/wichananm65/pharmachain-portal/internal/session"
)

// Catalog resolves the current catalog entry of a medicine.
type Catalog interface {
	Lookup(ctx context.Context, token, id string) (catalog.Item, error)
}

// Handler exposes the session cart over HTTP.
// Rejected quantity changes are not errors; the unchanged cart is returned.
type Handler struct {
	service  *Service
	products Catalog
}

func NewHandler(s *Service, products Catalog) *Handler {
	return &Handler{service: s, products: products}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Delete("/api/v1/cart", h.clearCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Patch("/api/v1/cart/items/:id", h.setQuantity)
	app.Delete("/api/v1/cart/items/:id", h.removeItem)
}

// Only the id is read; price, stock and minimum come from the catalog.
type addItemRequest struct {
	ID string `json:"id"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) store(c *fiber.Ctx) (*Store, error) {
	claims, err := session.FromCtx(c)
	if err != nil {
		return nil, err
	}
	return h.service.For(claims.SessionID), nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
}

func storeFailure(c *fiber.Ctx, err error) error {
	log.Errorf("cart store: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to update cart"})
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	st, err := h.store(c)
	if err != nil {
		return unauthorized(c)
	}
	lines, err := st.Lines(c.UserContext())
	if err != nil {
		return storeFailure(c, err)
	}
	return c.JSON(NewView(lines))
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	claims, token, err := session.Upstream(c, h.service.repo, session.KeyUserToken)
	if err != nil {
		return unauthorized(c)
	}
	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "id is required"})
	}

	item, err := h.products.Lookup(c.UserContext(), token, payload.ID)
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	if err != nil {
		return apierr.Respond(c, err)
	}

	lines, err := h.service.For(claims.SessionID).AddOrIncrement(c.UserContext(), ProductOf(item))
	if err != nil {
		return storeFailure(c, err)
	}
	view := NewView(lines)
	view.Redirect = "/cart"
	return c.JSON(view)
}

func (h *Handler) setQuantity(c *fiber.Ctx) error {
	st, err := h.store(c)
	if err != nil {
		return unauthorized(c)
	}
	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "quantity is required"})
	}

	lines, err := st.SetQuantity(c.UserContext(), c.Params("id"), *payload.Quantity)
	if err != nil {
		return storeFailure(c, err)
	}
	return c.JSON(NewView(lines))
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	st, err := h.store(c)
	if err != nil {
		return unauthorized(c)
	}
	lines, err := st.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return storeFailure(c, err)
	}
	return c.JSON(NewView(lines))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	st, err := h.store(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := st.Clear(c.UserContext()); err != nil {
		return storeFailure(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
