package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elevateforhumanity/elevate/app/controllers"
	"github.com/elevateforhumanity/elevate/internal/pkg/middleware"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Static pages
	app.Get("/about", loggedInMiddleware, controllers.HandleAbout)
	app.Get("/contact", loggedInMiddleware, controllers.HandleContact)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Payment gate in front of the timeclock (JSON)
	app.Get("/apprentice/:slug/clock-in", middleware.RequireAuth, controllers.HandleClockInCheck)
	app.Post("/apprentice/:slug/payment-link", middleware.RequireAuth, controllers.HandleRequestPaymentLink)

	// Billing provider webhooks (no CSRF, signature-verified in controller)
	app.Post("/webhooks/stripe", controllers.HandleStripeWebhook)
}
