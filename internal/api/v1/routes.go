package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elevateforhumanity/elevate/internal/pkg/middleware"
)

// RegisterHandlers attaches the v1 routes to the given router group.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)

	// Public catalog and quote endpoints
	router.Get("/programs", s.GetPrograms)
	router.Get("/programs/:slug/payment-options", s.GetPaymentOptions)
	router.Post("/programs/:slug/setup-fee-quote", s.PostSetupFeeQuote)
	router.Get("/programs/:slug/bnpl", s.GetBNPLOptions)

	// Partner endpoints, authenticated with the shared partner API key
	partner := router.Group("/students", middleware.APIKeyAuthMiddleware())
	partner.Get("/:id/plan", s.GetStudentPlan)
	partner.Get("/:id/clock-in", s.GetStudentClockIn)
}
