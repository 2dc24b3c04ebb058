package dashboard

import "github.com/gofiber/fiber/v2"

type guard struct {
	method string
	path   string
	view   View
}

// guards maps the role-gated portal routes to the view that unlocks them.
var guards = []guard{
	{fiber.MethodGet, "/api/v1/medicines", ViewBrowseMedicines},
	{fiber.MethodGet, "/api/v1/products", ViewMyProducts},
	{fiber.MethodPost, "/api/v1/products", ViewAddProduct},
	{fiber.MethodPut, "/api/v1/products/:id", ViewMyProducts},
	{fiber.MethodDelete, "/api/v1/products/:id", ViewMyProducts},
	{fiber.MethodGet, "/api/v1/orders/placed", ViewOrdersPlaced},
	{fiber.MethodGet, "/api/v1/orders/:id/track", ViewOrdersPlaced},
	{fiber.MethodGet, "/api/v1/orders/received", ViewOrdersReceived},
	{fiber.MethodPut, "/api/v1/orders/:id/status", ViewOrdersReceived},
}

// prefixGuards cover every route under a prefix.
var prefixGuards = map[string]View{
	"/api/v1/cart":     ViewBrowseMedicines,
	"/api/v1/checkout": ViewBrowseMedicines,
	"/api/v1/profile":  ViewProfile,
}

// RegisterGuards installs role checks in front of the feature routes. It
// must run after the jwt middleware and before the feature handlers.
func RegisterGuards(app *fiber.App) {
	for prefix, v := range prefixGuards {
		app.Use(prefix, Require(v))
	}
	for _, g := range guards {
		app.Add(g.method, g.path, Require(g.view))
	}
}
