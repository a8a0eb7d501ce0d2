package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elevateforhumanity/elevate/app/controllers"
	"github.com/elevateforhumanity/elevate/internal/pkg/session"
	"github.com/elevateforhumanity/elevate/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request
// This centralizes user session handling and eliminates code duplication
func UserContextMiddleware(c *fiber.Ctx) error {
	// Get session with error handling
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: set as anonymous user
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn: false,
		})
		c.Locals(controllers.FROM_PROTECTED, false)
		return c.Next()
	}

	// Get user ID from session
	userID := sess.Get(controllers.USER_ID)
	if userID == nil {
		// Anonymous user - no session data
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn: false,
		})
		c.Locals(controllers.FROM_PROTECTED, false)
		return c.Next()
	}

	// User is logged in - get additional data
	username := session.GetSessionValue(c, controllers.USER_NAME)
	role := session.GetSessionValue(c, controllers.USER_ROLE)

	userCtx := usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   username,
		IsLoggedIn: true,
		Role:       role,
	}
	c.Locals("USER_CONTEXT", userCtx)

	c.Locals(controllers.FROM_PROTECTED, true)
	c.Locals(controllers.USER_NAME, username)
	c.Locals(controllers.USER_ID, userID.(uint))
	c.Locals(controllers.USER_ROLE, role)

	return c.Next()
}
