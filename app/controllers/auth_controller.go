package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/elevateforhumanity/elevate/app/models"
	"github.com/elevateforhumanity/elevate/internal/pkg/database"
	"github.com/elevateforhumanity/elevate/internal/pkg/env"
	"github.com/elevateforhumanity/elevate/internal/pkg/hcaptcha"
	"github.com/elevateforhumanity/elevate/internal/pkg/mail"
	"github.com/elevateforhumanity/elevate/internal/pkg/session"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		var user models.User
		fm := fiber.Map{
			"type": "error",
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
		if result.Error != nil {
			fm["message"] = "There is a problem with the login process"
			return flash.WithError(c, fm).Redirect("/login")
		}

		if !models.CheckPasswordHash(c.FormValue("password"), user.Password) {
			fm["message"] = "There is a problem with the login process"
			return flash.WithError(c, fm).Redirect("/login")
		}

		if user.Status == models.STATUS_DISABLED {
			fm["message"] = "This account is disabled"
			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)
			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(AUTH_KEY, true)
		sess.Set(USER_ID, user.ID)
		sess.Set(USER_NAME, user.Name)
		sess.Set(USER_ROLE, user.Role)

		if err := sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)
			return flash.WithError(c, fm).Redirect("/login")
		}

		database.GetDB().Model(&user).Update("last_login_at", time.Now())

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back!",
		}
		return flash.WithSuccess(c, fm).Redirect("/apprentice")
	}

	return render(c, "auth/login", fiber.Map{
		"Title": "Login",
		"Flash": flash.Get(c),
	})
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		if hcaptcha.Enabled() {
			if ok, err := hcaptcha.Verify(c.FormValue("h-captcha-response")); !ok || err != nil {
				fm["message"] = "Captcha verification failed"
				return flash.WithError(c, fm).Redirect("/register")
			}
		}

		name := c.FormValue("name")
		email := c.FormValue("email")
		password := c.FormValue("password")

		user, err := models.CreateUser(name, email, password)
		if err != nil {
			fm["message"] = "Please check your name, email and password"
			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := user.GenerateActivationToken(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)
			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := database.GetDB().Create(user).Error; err != nil {
			fm["message"] = "An account with this email already exists"
			return flash.WithError(c, fm).Redirect("/register")
		}

		activationURL := fmt.Sprintf("%s/activate?token=%s",
			env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000"), user.ActivationToken)
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p>Welcome to Elevate for Humanity. Click the link to activate your account:</p><p><a href=\"%s\">Activate account</a></p>",
			user.Name, activationURL,
		)
		if err := mail.SendMail(user.Email, "Activate your account", body); err != nil {
			// Account exists, the token can be re-sent by staff.
			fm = fiber.Map{
				"type":    "success",
				"message": "Account created, but we could not send the activation email. Please contact us.",
			}
			return flash.WithSuccess(c, fm).Redirect("/login")
		}

		fm = fiber.Map{
			"type":    "success",
			"message": "Account created! Check your email to activate it.",
		}
		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return render(c, "auth/register", fiber.Map{
		"Title":           "Register",
		"Flash":           flash.Get(c),
		"HCaptchaSiteKey": hcaptcha.SiteKey(),
	})
}

func HandleAuthActivate(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		token = c.FormValue("token")
	}

	fm := fiber.Map{
		"type": "error",
	}
	if token == "" {
		fm["message"] = "Activation token is missing"
		return flash.WithError(c, fm).Redirect("/login")
	}

	var user models.User
	if err := database.GetDB().Where("activation_token = ?", token).First(&user).Error; err != nil {
		fm["message"] = "Invalid or expired activation token"
		return flash.WithError(c, fm).Redirect("/login")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := database.GetDB().Save(&user).Error; err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)
		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Your account is active. You can log in now.",
	}
	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"
		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := sess.Destroy(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)
		return flash.WithError(c, fm).Redirect("/login")
	}

	c.Locals(FROM_PROTECTED, false)

	fm = fiber.Map{
		"type":    "success",
		"message": "See you next time!",
	}
	return flash.WithSuccess(c, fm).Redirect("/")
}
