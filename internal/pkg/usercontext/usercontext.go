package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elevateforhumanity/elevate/app/models"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"is_logged_in"`
	Role       string `json:"role"`
}

// IsStaff reports whether the user can access staff tooling.
func (u UserContext) IsStaff() bool {
	return u.Role == models.ROLE_STAFF || u.Role == models.ROLE_ADMIN
}

// IsAdmin reports whether the user has full administrative access.
func (u UserContext) IsAdmin() bool {
	return u.Role == models.ROLE_ADMIN
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}

// GetUsername returns the current user's username, or empty string if not logged in
func GetUsername(c *fiber.Ctx) string {
	return GetUserContext(c).Username
}
