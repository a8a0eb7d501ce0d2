package apiv1

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/elevateforhumanity/elevate/app/repository"
	"github.com/elevateforhumanity/elevate/internal/pkg/billing"
	"github.com/elevateforhumanity/elevate/internal/pkg/programs"
)

// APIServer serves the JSON API consumed by the enrollment frontend and the
// case-manager partner integration.
type APIServer struct {
	billing *billing.Service
}

// NewAPIServer creates a new API server instance
func NewAPIServer(svc *billing.Service) *APIServer {
	return &APIServer{billing: svc}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

// GetPrograms lists the active catalog with base pricing.
func (s *APIServer) GetPrograms(c *fiber.Ctx) error {
	programs, err := repository.GetGlobalFactory().GetProgramRepository().ListActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(fiber.Map{"programs": programs})
}

// GetPaymentOptions quotes every payment variant for a program. Pace and
// transfer hours come from query parameters; the quote assumes a new student.
func (s *APIServer) GetPaymentOptions(c *fiber.Ctx) error {
	program, err := repository.GetGlobalFactory().GetProgramRepository().GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "unknown program"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	hoursPerWeek, err := billing.NewHoursPerWeek(c.QueryInt("hours_per_week", int(billing.DefaultHoursPerWeek)))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "hours_per_week must be a positive integer"})
	}
	transferHours := c.QueryInt("transfer_hours", 0)
	if transferHours < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "transfer_hours must not be negative"})
	}

	pricing := billing.PricingFor(program)
	options := pricing.PaymentOptions(hoursPerWeek, transferHours, 0, billing.Unenrolled())
	return c.JSON(fiber.Map{
		"options":       options,
		"monthly_plans": programs.MonthlyPlans(program.FullPrice),
	})
}

// setupFeeQuoteRequest is the body of POST /programs/:slug/setup-fee-quote.
type setupFeeQuoteRequest struct {
	SetupFee      float64 `json:"setup_fee"`
	HoursPerWeek  int     `json:"hours_per_week"`
	TransferHours int     `json:"transfer_hours"`
}

// PostSetupFeeQuote previews the plan a proposed setup fee would produce.
// Fees below the floor come back with is_valid=false, not an HTTP error.
func (s *APIServer) PostSetupFeeQuote(c *fiber.Ctx) error {
	program, err := repository.GetGlobalFactory().GetProgramRepository().GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "unknown program"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}

	var req setupFeeQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid JSON body"})
	}
	if req.HoursPerWeek == 0 {
		req.HoursPerWeek = int(billing.DefaultHoursPerWeek)
	}
	hoursPerWeek, err := billing.NewHoursPerWeek(req.HoursPerWeek)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "hours_per_week must be a positive integer"})
	}

	pricing := billing.PricingFor(program)
	options := pricing.PaymentOptions(hoursPerWeek, req.TransferHours, 0, billing.Unenrolled())
	result := pricing.CustomSetupFee(req.SetupFee, options.WeeksRemaining)
	return c.JSON(result)
}

// GetBNPLOptions lists the external financing quotes for a program.
func (s *APIServer) GetBNPLOptions(c *fiber.Ctx) error {
	program, err := repository.GetGlobalFactory().GetProgramRepository().GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "unknown program"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(fiber.Map{"options": billing.BNPLQuotes(program.FullPrice)})
}

// GetStudentPlan returns a student's derived payment plan. Partner API.
func (s *APIServer) GetStudentPlan(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid student id"})
	}
	slug := c.Query("program")
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "program query parameter is required"})
	}

	plan, err := s.billing.GetStudentPaymentPlan(c.Context(), uint(userID), slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "no enrollment for this student and program"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(plan)
}

// GetStudentClockIn runs the payment gate for a student. Partner API.
func (s *APIServer) GetStudentClockIn(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid student id"})
	}
	slug := c.Query("program")
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "program query parameter is required"})
	}

	check, err := s.billing.CanClockIn(c.Context(), uint(userID), slug)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(check)
}
