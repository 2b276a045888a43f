package handlers

import "github.com/gofiber/fiber/v2"

// PageHandler serves the static about and contact page view models.
type PageHandler struct{}

// NewPageHandler creates a new PageHandler.
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// RegisterRoutes registers the static page routes with the Fiber app.
func (h *PageHandler) RegisterRoutes(router fiber.Router) {
	pageRoutes := router.Group("/pages")
	pageRoutes.Get("/about", h.HandleAbout)
	pageRoutes.Get("/contact", h.HandleContact)
}

// HandleAbout returns the about page view model.
func (h *PageHandler) HandleAbout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":  "about",
		"title": "About Me",
		"body":  "A personal blog about code, coffee, and everything in between.",
	})
}

// HandleContact returns the contact page view model.
func (h *PageHandler) HandleContact(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":  "contact",
		"title": "Contact Me",
		"body":  "Drop a comment on any post, or reach out by email.",
	})
}
