package dashboard

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func TestRegisterGuards(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"session_id": "s1", "role": c.Get("X-Role")}})
		return c.Next()
	})
	RegisterGuards(app)
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }
	app.Get("/api/v1/medicines", ok)
	app.Post("/api/v1/products", ok)
	app.Get("/api/v1/products", ok)
	app.Put("/api/v1/orders/:id/status", ok)
	app.Post("/api/v1/cart/items", ok)
	app.Get("/api/v1/profile", ok)

	cases := []struct {
		role, method, path string
		want               int
	}{
		{"manufacturer", "GET", "/api/v1/medicines", fiber.StatusForbidden},
		{"retailer", "GET", "/api/v1/medicines", fiber.StatusNoContent},
		{"retailer", "POST", "/api/v1/products", fiber.StatusForbidden},
		{"retailer", "GET", "/api/v1/products", fiber.StatusForbidden},
		{"distributor", "POST", "/api/v1/products", fiber.StatusNoContent},
		{"distributor", "PUT", "/api/v1/orders/o1/status", fiber.StatusForbidden},
		{"wholesaler", "PUT", "/api/v1/orders/o1/status", fiber.StatusNoContent},
		{"manufacturer", "POST", "/api/v1/cart/items", fiber.StatusForbidden},
		{"wholesaler", "POST", "/api/v1/cart/items", fiber.StatusNoContent},
		{"", "GET", "/api/v1/profile", fiber.StatusForbidden},
		{"manufacturer", "GET", "/api/v1/profile", fiber.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set("X-Role", tc.role)
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		if res.StatusCode != tc.want {
			t.Errorf("%s %s %s: expected %d, got %d", tc.role, tc.method, tc.path, tc.want, res.StatusCode)
		}
	}
}
