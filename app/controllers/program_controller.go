package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/elevateforhumanity/elevate/app/repository"
	"github.com/elevateforhumanity/elevate/internal/pkg/billing"
	"github.com/elevateforhumanity/elevate/internal/pkg/programs"
	"github.com/elevateforhumanity/elevate/internal/pkg/usercontext"
)

func HandleProgramsIndex(c *fiber.Ctx) error {
	active, err := repository.GetGlobalFactory().GetProgramRepository().ListActive()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load programs")
	}

	return render(c, "programs/index", fiber.Map{
		"Title":    "Programs",
		"Programs": active,
	})
}

// HandleProgramShow renders one program with its payment options. Students
// can preview different training paces via ?hours_per_week=.
func HandleProgramShow(c *fiber.Ctx) error {
	slug := c.Params("slug")
	program, err := repository.GetGlobalFactory().GetProgramRepository().GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "program not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not load program")
	}

	hoursPerWeek, err := billing.NewHoursPerWeek(c.QueryInt("hours_per_week", int(billing.DefaultHoursPerWeek)))
	if err != nil {
		hoursPerWeek = billing.DefaultHoursPerWeek
	}
	transferHours := c.QueryInt("transfer_hours", 0)
	if transferHours < 0 {
		transferHours = 0
	}

	pricing := billing.PricingFor(program)
	options := pricing.PaymentOptions(hoursPerWeek, transferHours, 0, billing.Unenrolled())

	return render(c, "programs/show", fiber.Map{
		"Title":         program.Label,
		"Program":       program,
		"Options":       options,
		"MonthlyPlans":  programs.MonthlyPlans(program.FullPrice),
		"HoursPerWeek":  int(hoursPerWeek),
		"TransferHours": transferHours,
		"MinSetupFee":   billing.FormatCurrency(options.MinSetupFee),
		"WeeklyPayment": billing.FormatCurrency(options.WeeklyPayment),
		"PayInFull":     billing.FormatCurrency(options.PayInFull.Amount),
		"Flash":         flash.Get(c),
		"CanEnroll":     usercontext.IsLoggedIn(c),
	})
}
