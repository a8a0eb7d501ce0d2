package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elevateforhumanity/elevate/app/controllers"
	"github.com/elevateforhumanity/elevate/internal/pkg/middleware"
	"github.com/elevateforhumanity/elevate/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Wire the billing and vendor provisioning services
	controllers.InitializeBillingController()

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context; guests pass
	// through and see public pages.
	return c.Next()
}
