package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/elevateforhumanity/elevate/app/controllers"
	"github.com/elevateforhumanity/elevate/internal/pkg/env"
	"github.com/elevateforhumanity/elevate/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/") ||
				strings.HasPrefix(c.Path(), "/webhooks/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleStart)
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Get("/activate", loggedInMiddleware, controllers.HandleAuthActivate)
	group.Post("/activate", loggedInMiddleware, controllers.HandleAuthActivate)

	// Program catalog and enrollment
	group.Get("/programs", loggedInMiddleware, controllers.HandleProgramsIndex)
	group.Get("/programs/:slug", loggedInMiddleware, controllers.HandleProgramShow)
	group.Post("/programs/:slug/enroll", middleware.RequireAuth, controllers.HandleEnroll)

	// Student payment plan
	group.Get("/apprentice", middleware.RequireAuth, controllers.HandleApprenticeDashboard)
	group.Post("/apprentice/plan", middleware.RequireAuth, controllers.HandleEstablishPlan)
}
