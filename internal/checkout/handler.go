package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/session"
)

// Front-end routes the browser is sent to after each outcome.
const (
	RedirectShipping      = "/place-order"
	RedirectPaymentMethod = "/payment-method"
	RedirectSuccess       = "/payment-success"
	RedirectError         = "/error"
	RedirectPaymentError  = "/payment-error"
)

type Handler struct {
	service  *Service
	sessions session.Repository
}

func NewHandler(s *Service, sessions session.Repository) *Handler {
	return &Handler{service: s, sessions: sessions}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/checkout", h.summary)
	app.Put("/api/v1/checkout/shipping", h.saveShipping)
	app.Put("/api/v1/checkout/payment-method", h.selectPaymentMethod)
	app.Post("/api/v1/checkout/orders", h.placeOrder)
	app.Post("/api/v1/checkout/verify", h.verify)
	app.Post("/api/v1/checkout/payment-failed", h.paymentFailed)
}

type paymentMethodRequest struct {
	Method string `json:"method"`
}

type paymentFailedRequest struct {
	Reason string `json:"reason"`
}

var stepErrors = []error{
	ErrInvalidShipping, ErrInvalidPaymentMethod, ErrEmptyCart, ErrShippingRequired,
	ErrPaymentMethodRequired, ErrInvalidTransition, ErrNoPendingPayment,
}

// isStepError reports whether err came from a local step check rather
// than from the order round-trip.
func isStepError(err error) bool {
	for _, target := range stepErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// stepError answers errors from the local checkout steps.
func stepError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidShipping), errors.Is(err, ErrInvalidPaymentMethod):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrEmptyCart):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error(), "redirect": "/cart"})
	case errors.Is(err, ErrShippingRequired):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error(), "redirect": RedirectShipping})
	case errors.Is(err, ErrPaymentMethodRequired):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error(), "redirect": RedirectPaymentMethod})
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNoPendingPayment):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		log.Errorf("checkout: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "checkout failed"})
	}
}

func (h *Handler) caller(c *fiber.Ctx) (Caller, error) {
	claims, token, err := session.Upstream(c, h.sessions, session.KeyUserToken)
	if err != nil {
		return Caller{}, err
	}
	return Caller{SessionID: claims.SessionID, UserID: claims.UserID, Token: token}, nil
}

func (h *Handler) summary(c *fiber.Ctx) error {
	claims, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	sum, err := h.service.Summary(c.UserContext(), claims.SessionID)
	if err != nil {
		return stepError(c, err)
	}
	return c.JSON(sum)
}

func (h *Handler) saveShipping(c *fiber.Ctx) error {
	claims, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(ShippingInfo)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	st, err := h.service.SaveShipping(c.UserContext(), claims.SessionID, *payload)
	if err != nil {
		return stepError(c, err)
	}
	return c.JSON(fiber.Map{"status": st.Status, "redirect": RedirectPaymentMethod})
}

func (h *Handler) selectPaymentMethod(c *fiber.Ctx) error {
	claims, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(paymentMethodRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	st, err := h.service.SelectPaymentMethod(c.UserContext(), claims.SessionID, PaymentMethod(payload.Method))
	if err != nil {
		return stepError(c, err)
	}
	return c.JSON(fiber.Map{"status": st.Status, "paymentMethod": st.PaymentMethod})
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	who, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	ps, err := h.service.PlaceOrder(c.UserContext(), who)
	if err != nil {
		if isStepError(err) {
			return stepError(c, err)
		}
		// anything else went wrong talking to the backend or the provider
		log.Warnf("checkout: order creation failed for session %s: %v", who.SessionID, err)
		status := apierr.Status(err)
		if errors.Is(err, ErrAmountMismatch) {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{"message": apierr.Message(err), "redirect": RedirectError})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"razorpayOrder": ps})
}

func (h *Handler) verify(c *fiber.Ctx) error {
	who, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(Callback)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error(), "redirect": RedirectPaymentError})
	}
	conf, err := h.service.Verify(c.UserContext(), who, *payload)
	if err != nil {
		if errors.Is(err, ErrNoPendingPayment) {
			return stepError(c, err)
		}
		log.Warnf("checkout: verification failed for session %s: %v", who.SessionID, err)
		status := fiber.StatusBadRequest
		if !errors.Is(err, ErrCallbackMismatch) {
			status = apierr.Status(err)
		}
		return c.Status(status).JSON(fiber.Map{"message": apierr.Message(err), "redirect": RedirectPaymentError})
	}
	return c.JSON(fiber.Map{"order": conf, "redirect": RedirectSuccess})
}

func (h *Handler) paymentFailed(c *fiber.Ctx) error {
	who, err := h.caller(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	payload := new(paymentFailedRequest)
	_ = c.BodyParser(payload)
	st, err := h.service.ReportPaymentFailure(c.UserContext(), who, payload.Reason)
	if err != nil {
		return stepError(c, err)
	}
	return c.JSON(fiber.Map{"status": st.Status, "redirect": RedirectPaymentError})
}
