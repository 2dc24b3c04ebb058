package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/wichananm65/pharmachain-portal/internal/apierr"
	"github.com/wichananm65/pharmachain-portal/internal/session"
)

func makeAppWithCheckoutHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-Session-ID"); v != "" {
			claims := jwt.MapClaims{"session_id": v, "user_id": "u1", "role": "retailer"}
			c.Locals("user", &jwt.Token{Claims: claims})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "s1")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out := map[string]any{}
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res, out
}

func TestCheckoutRoutes_HappyPath(t *testing.T) {
	f := newFixture(t)
	_ = session.PutToken(context.Background(), f.repo, "s1", session.KeyUserToken, "tok")
	app := makeAppWithCheckoutHandler(NewHandler(f.svc, f.repo))

	res, body := send(t, app, "PUT", "/api/v1/checkout/shipping",
		`{"name":"Asha","phone":"9876543210","address":"12 MG Road","city":"Pune","state":"MH","pincode":"411001"}`)
	if res.StatusCode != fiber.StatusOK || body["redirect"] != RedirectPaymentMethod {
		t.Fatalf("unexpected shipping response %d %v", res.StatusCode, body)
	}

	res, body = send(t, app, "PUT", "/api/v1/checkout/payment-method", `{"method":"card"}`)
	if res.StatusCode != fiber.StatusOK || body["paymentMethod"] != "card" {
		t.Fatalf("unexpected payment method response %d %v", res.StatusCode, body)
	}

	res, body = send(t, app, "POST", "/api/v1/checkout/orders", ``)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d %v", res.StatusCode, body)
	}
	rzp, _ := body["razorpayOrder"].(map[string]any)
	if rzp["id"] != "order_1" || rzp["currency"] != "INR" {
		t.Fatalf("unexpected razorpayOrder %v", body)
	}

	res, body = send(t, app, "POST", "/api/v1/checkout/verify",
		`{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"sig"}`)
	if res.StatusCode != fiber.StatusOK || body["redirect"] != RedirectSuccess {
		t.Fatalf("unexpected verify response %d %v", res.StatusCode, body)
	}
	order, _ := body["order"].(map[string]any)
	if order["orderId"] != "PO-1" || order["paymentMethod"] != "card" {
		t.Fatalf("unexpected confirmation %v", order)
	}
}

func TestCheckoutRoutes_FailureRedirects(t *testing.T) {
	f := newFixture(t)
	_ = session.PutToken(context.Background(), f.repo, "s1", session.KeyUserToken, "tok")
	app := makeAppWithCheckoutHandler(NewHandler(f.svc, f.repo))
	f.throughPaymentMethod(t)

	f.orders.createErr = &apierr.Error{Status: 500, Message: "razorpay down"}
	res, body := send(t, app, "POST", "/api/v1/checkout/orders", ``)
	if res.StatusCode != fiber.StatusBadGateway || body["redirect"] != RedirectError {
		t.Fatalf("expected 502 with /error redirect, got %d %v", res.StatusCode, body)
	}

	f.orders.createErr = nil
	send(t, app, "POST", "/api/v1/checkout/orders", ``)
	f.orders.verifyErr = &apierr.Error{Status: 400, Message: "Invalid signature"}
	res, body = send(t, app, "POST", "/api/v1/checkout/verify",
		`{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"bad"}`)
	if res.StatusCode != fiber.StatusBadRequest || body["redirect"] != RedirectPaymentError {
		t.Fatalf("expected 400 with /payment-error redirect, got %d %v", res.StatusCode, body)
	}

	res, body = send(t, app, "GET", "/api/v1/checkout", ``)
	if res.StatusCode != fiber.StatusOK || body["status"] != string(StatusVerificationFailed) {
		t.Fatalf("unexpected summary %d %v", res.StatusCode, body)
	}
	if items, _ := body["items"].([]any); len(items) != 2 {
		t.Fatalf("cart should still hold 2 items, got %v", body["items"])
	}
}

func TestCheckoutRoutes_AnyOrderFailureRedirectsToError(t *testing.T) {
	f := newFixture(t)
	_ = session.PutToken(context.Background(), f.repo, "s1", session.KeyUserToken, "tok")
	app := makeAppWithCheckoutHandler(NewHandler(f.svc, f.repo))

	res, _ := send(t, app, "PUT", "/api/v1/checkout/shipping",
		`{"name":"Asha","phone":"9876543210","address":"12 MG Road","city":"Pune","state":"MH","pincode":"411001"}`)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("shipping: %d", res.StatusCode)
	}
	if res, _ := send(t, app, "PUT", "/api/v1/checkout/payment-method", `{"method":"upi"}`); res.StatusCode != fiber.StatusOK {
		t.Fatalf("payment method: %d", res.StatusCode)
	}

	// a malformed 2xx body from the backend
	f.orders.createErr = fmt.Errorf("decode backend response: %w", io.ErrUnexpectedEOF)
	res, body := send(t, app, "POST", "/api/v1/checkout/orders", ``)
	if res.StatusCode != fiber.StatusInternalServerError || body["redirect"] != RedirectError {
		t.Fatalf("expected 500 with /error redirect, got %d %v", res.StatusCode, body)
	}

	f.orders.createErr = context.DeadlineExceeded
	res, body = send(t, app, "POST", "/api/v1/checkout/orders", ``)
	if body["redirect"] != RedirectError {
		t.Fatalf("expected /error redirect for a timed out call, got %d %v", res.StatusCode, body)
	}

	f.orders.createErr = nil
	f.orders.session.Amount = 100
	res, body = send(t, app, "POST", "/api/v1/checkout/orders", ``)
	if res.StatusCode != fiber.StatusBadGateway || body["redirect"] != RedirectError {
		t.Fatalf("expected 502 with /error redirect for a wrong amount, got %d %v", res.StatusCode, body)
	}

	// local step failures keep their own redirects
	_ = f.carts.For("s1").Clear(context.Background())
	res, body = send(t, app, "POST", "/api/v1/checkout/orders", ``)
	if res.StatusCode != fiber.StatusConflict || body["redirect"] != "/cart" {
		t.Fatalf("expected 409 redirecting to the cart, got %d %v", res.StatusCode, body)
	}
}

func TestCheckoutRoutes_Validation(t *testing.T) {
	f := newFixture(t)
	app := makeAppWithCheckoutHandler(NewHandler(f.svc, f.repo))

	res, _ := send(t, app, "PUT", "/api/v1/checkout/shipping", `{"name":"Asha"}`)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete shipping, got %d", res.StatusCode)
	}
	res, body := send(t, app, "PUT", "/api/v1/checkout/payment-method", `{"method":"upi"}`)
	if res.StatusCode != fiber.StatusConflict || body["redirect"] != RedirectShipping {
		t.Fatalf("expected 409 redirecting to shipping, got %d %v", res.StatusCode, body)
	}
	// no backend login stored for this session
	res, _ = send(t, app, "POST", "/api/v1/checkout/orders", ``)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without backend token, got %d", res.StatusCode)
	}
}
