package middleware

import (
	"strings"

	"blog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session_token"

// Session resolves the request's session token, if any, into the
// current user id and stores it in the request locals. Anonymous
// requests pass through with no locals set; this middleware never
// blocks. The token is read from the session cookie, with an
// "Authorization: Bearer" header accepted as a fallback for non-browser
// clients.
func Session(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(CookieName)
		if token == "" {
			parts := strings.SplitN(c.Get("Authorization"), " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}

		if userID, ok := authService.Resolve(token); ok {
			c.Locals("user_id", userID)
			c.Locals("session_token", token)
		}

		return c.Next()
	}
}

// CurrentUserID returns the user id resolved by the Session middleware,
// or 0 when the request is anonymous.
func CurrentUserID(c *fiber.Ctx) uint {
	if userID, ok := c.Locals("user_id").(uint); ok {
		return userID
	}
	return 0
}
