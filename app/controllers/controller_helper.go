package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/elevateforhumanity/elevate/internal/pkg/usercontext"
)

// Shared session/locals keys.
const (
	AUTH_KEY       string = "authenticated"
	USER_ID        string = "user_id"
	USER_NAME      string = "username"
	USER_ROLE      string = "role"
	FROM_PROTECTED string = "from_protected"
)

// render wraps c.Render and injects the data every layout needs.
func render(c *fiber.Ctx, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	ctx := usercontext.GetUserContext(c)
	data["IsLoggedIn"] = ctx.IsLoggedIn
	data["Username"] = ctx.Username
	data["IsStaff"] = ctx.IsStaff()
	if token, ok := c.Locals("csrf").(string); ok {
		data["CSRFToken"] = token
	}
	return c.Render(view, data)
}

func parseFormInt(c *fiber.Ctx, key string, def int) int {
	v := c.FormValue(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func parseFormFloat(c *fiber.Ctx, key string, def float64) float64 {
	v := c.FormValue(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
