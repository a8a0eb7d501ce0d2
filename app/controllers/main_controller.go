package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/elevateforhumanity/elevate/app/repository"
)

func HandleStart(c *fiber.Ctx) error {
	programs, err := repository.GetGlobalFactory().GetProgramRepository().ListActive()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not load programs")
	}

	return render(c, "index", fiber.Map{
		"Title":    "Workforce Training Programs",
		"Programs": programs,
		"Flash":    flash.Get(c),
	})
}

func HandleAbout(c *fiber.Ctx) error {
	return render(c, "about", fiber.Map{
		"Title": "About",
	})
}

func HandleContact(c *fiber.Ctx) error {
	return render(c, "contact", fiber.Map{
		"Title": "Contact",
	})
}
