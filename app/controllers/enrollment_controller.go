package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/elevateforhumanity/elevate/app/models"
	"github.com/elevateforhumanity/elevate/app/repository"
	"github.com/elevateforhumanity/elevate/internal/pkg/billing"
	"github.com/elevateforhumanity/elevate/internal/pkg/usercontext"
)

// HandleEnroll creates an enrollment for the logged-in student.
func HandleEnroll(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	slug := c.Params("slug")

	fm := fiber.Map{"type": "error"}

	program, err := repository.GetGlobalFactory().GetProgramRepository().GetBySlug(slug)
	if err != nil {
		fm["message"] = "Program not found"
		return flash.WithError(c, fm).Redirect("/programs")
	}

	enrollRepo := repository.GetGlobalFactory().GetEnrollmentRepository()
	if _, err := enrollRepo.GetByUserAndProgram(userID, slug); err == nil {
		fm["message"] = "You are already enrolled in this program"
		return flash.WithError(c, fm).Redirect("/programs/" + slug)
	}

	hoursPerWeek, err := billing.NewHoursPerWeek(parseFormInt(c, "hours_per_week", int(billing.DefaultHoursPerWeek)))
	if err != nil {
		fm["message"] = "Hours per week must be a positive number"
		return flash.WithError(c, fm).Redirect("/programs/" + slug)
	}
	transferHours := parseFormInt(c, "transfer_hours", 0)
	if transferHours < 0 || transferHours > program.TotalHoursRequired {
		fm["message"] = "Transfer hours must be between 0 and the program's total hours"
		return flash.WithError(c, fm).Redirect("/programs/" + slug)
	}

	enrollment := &models.Enrollment{
		Reference:     uuid.NewString(),
		UserID:        userID,
		ProgramSlug:   program.Slug,
		Status:        models.EnrollmentStatusActive,
		HoursPerWeek:  int(hoursPerWeek),
		TransferHours: transferHours,
		EnrolledAt:    time.Now(),
	}
	if err := enrollment.Validate(); err != nil {
		fm["message"] = "Invalid enrollment details"
		return flash.WithError(c, fm).Redirect("/programs/" + slug)
	}
	if err := enrollRepo.Create(enrollment); err != nil {
		fm["message"] = "Could not create the enrollment"
		return flash.WithError(c, fm).Redirect("/programs/" + slug)
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "You are enrolled! Choose your payment plan below.",
	}
	return flash.WithSuccess(c, fm).Redirect("/apprentice")
}

// HandleApprenticeDashboard shows the student's enrollments with their
// derived payment plan state.
func HandleApprenticeDashboard(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	enrollments, err := repository.GetGlobalFactory().GetEnrollmentRepository().ListByUser(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load enrollments")
	}

	type planView struct {
		Enrollment *models.Enrollment
		Plan       *billing.StudentPaymentPlan
		Weekly     string
		Balance    string
	}
	svc := billingService()
	plans := make([]planView, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		plan, err := svc.GetStudentPaymentPlan(c.Context(), userID, e.ProgramSlug)
		if err != nil {
			continue
		}
		plans = append(plans, planView{
			Enrollment: e,
			Plan:       plan,
			Weekly:     billing.FormatCurrency(plan.WeeklyPaymentAmount),
			Balance:    billing.FormatCurrency(plan.RemainingBalance),
		})
	}

	return render(c, "apprentice/dashboard", fiber.Map{
		"Title":   "My Training",
		"Plans":   plans,
		"Flash":   flash.Get(c),
		"Payment": c.Query("payment"),
	})
}

// HandleEstablishPlan locks in a payment plan from the student's proposed
// setup fee.
func HandleEstablishPlan(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	slug := c.FormValue("program_slug")

	fm := fiber.Map{"type": "error"}

	enrollment, err := repository.GetGlobalFactory().GetEnrollmentRepository().GetByUserAndProgram(userID, slug)
	if err != nil {
		fm["message"] = "No enrollment found for this program"
		return flash.WithError(c, fm).Redirect("/apprentice")
	}

	setupFee := parseFormFloat(c, "setup_fee", 0)
	result, err := billingService().EstablishPlan(c.Context(), enrollment.ID, setupFee)
	if err != nil {
		fm["message"] = "Could not establish the payment plan"
		return flash.WithError(c, fm).Redirect("/apprentice")
	}
	if !result.IsValid {
		fm["message"] = result.Error
		return flash.WithError(c, fm).Redirect("/apprentice")
	}

	fm = fiber.Map{
		"type": "success",
		"message": "Payment plan locked in: " + billing.FormatCurrency(result.SetupFee) +
			" today, then " + billing.FormatCurrency(result.WeeklyPayment) + " weekly.",
	}
	return flash.WithSuccess(c, fm).Redirect("/apprentice")
}

// HandleClockInCheck runs the payment gate before the timeclock.
func HandleClockInCheck(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	slug := c.Params("slug")

	check, err := billingService().CanClockIn(c.Context(), userID, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No enrollment found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
	return c.JSON(check)
}

