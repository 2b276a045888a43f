package middleware

import (
	"blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminRequired is a Fiber middleware guarding the privileged post
// mutations. Any request whose resolved identity is absent or not the
// administrator is rejected with 403 before the handler body runs.
// The check runs on every request; the underlying session can change
// between requests, so the verdict is never reused.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUserID(c) != models.AdminID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}
