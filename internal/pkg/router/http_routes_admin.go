package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elevateforhumanity/elevate/app/controllers"
	"github.com/elevateforhumanity/elevate/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireStaff)
	adminGroup.Get("/", controllers.HandleAdminDashboard)
	adminGroup.Get("/students", controllers.HandleAdminStudents)
	adminGroup.Get("/students/:id/plan", controllers.HandleAdminStudentPlan)
	adminGroup.Post("/reminders/run", controllers.HandleAdminRunReminders)
}
