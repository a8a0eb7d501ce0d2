package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/elevateforhumanity/elevate/app/models"
	"github.com/elevateforhumanity/elevate/app/repository"
	"github.com/elevateforhumanity/elevate/internal/pkg/billing"
	"github.com/elevateforhumanity/elevate/internal/pkg/database"
	"github.com/elevateforhumanity/elevate/internal/pkg/reminders"
)

// HandleAdminDashboard gives staff the money view: active student counts and
// who is behind on payments.
func HandleAdminDashboard(c *fiber.Ctx) error {
	enrollRepo := repository.GetGlobalFactory().GetEnrollmentRepository()

	activeCount, _ := enrollRepo.CountByStatus(models.EnrollmentStatusActive)
	paidCount, _ := enrollRepo.CountByStatus(models.EnrollmentStatusPaidInFull)

	enrollments, err := enrollRepo.ListActive("")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load enrollments")
	}

	type row struct {
		Enrollment *models.Enrollment
		Plan       *billing.StudentPaymentPlan
		Balance    string
	}
	var overdue []row
	svc := billingService()
	for i := range enrollments {
		e := &enrollments[i]
		plan, err := svc.GetStudentPaymentPlan(c.Context(), e.UserID, e.ProgramSlug)
		if err != nil || plan.Status != billing.PlanStatusOverdue {
			continue
		}
		overdue = append(overdue, row{
			Enrollment: e,
			Plan:       plan,
			Balance:    billing.FormatCurrency(plan.RemainingBalance),
		})
	}

	pendingVendor, err := provisionSvc.PendingManualPurchases()
	if err != nil {
		pendingVendor = nil
	}

	return render(c, "admin/dashboard", fiber.Map{
		"Title":         "Staff Dashboard",
		"ActiveCount":   activeCount,
		"PaidCount":     paidCount,
		"Overdue":       overdue,
		"PendingVendor": pendingVendor,
		"Flash":         flash.Get(c),
	})
}

// HandleAdminStudents lists students with optional search.
func HandleAdminStudents(c *fiber.Ctx) error {
	userRepo := repository.GetGlobalFactory().GetUserRepository()

	query := c.Query("q")
	var (
		users []models.User
		err   error
	)
	if query != "" {
		users, err = userRepo.Search(query)
	} else {
		users, err = userRepo.List(0, 100)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load students")
	}

	return render(c, "admin/students", fiber.Map{
		"Title": "Students",
		"Users": users,
		"Query": query,
	})
}

// HandleAdminStudentPlan shows one student's plan in a program.
func HandleAdminStudentPlan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid student id")
	}
	userID := uint(id)
	slug := c.Query("program")

	plan, err := billingService().GetStudentPaymentPlan(c.Context(), userID, slug)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "no plan for this student and program")
	}

	return render(c, "admin/student_plan", fiber.Map{
		"Title":   "Payment Plan",
		"Plan":    plan,
		"Weekly":  billing.FormatCurrency(plan.WeeklyPaymentAmount),
		"Balance": billing.FormatCurrency(plan.RemainingBalance),
		"Paid":    billing.FormatCurrency(plan.TotalPaid),
	})
}

// HandleAdminRunReminders triggers a reminder pass by hand, e.g. after a
// mail outage on a payment day. The Friday gate still applies.
func HandleAdminRunReminders(c *fiber.Ctx) error {
	runner := reminders.NewRunner(billingService(), billing.NewRepository(database.GetDB()))
	sent, err := runner.RunOnce(c.Context())

	fm := fiber.Map{"type": "success"}
	if err != nil {
		fm["type"] = "error"
		fm["message"] = "Reminder pass failed: " + err.Error()
		return flash.WithError(c, fm).Redirect("/admin")
	}
	fm["message"] = fmt.Sprintf("Sent %d payment reminders", sent)
	return flash.WithSuccess(c, fm).Redirect("/admin")
}
