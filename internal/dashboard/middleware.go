package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pharmachain-portal/internal/session"
)

// Require rejects requests whose session role does not enable v.
func Require(v View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := session.FromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		role, err := ParseRole(claims.Role)
		if err != nil || !role.Can(v) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "this view is not available for your role"})
		}
		return c.Next()
	}
}
