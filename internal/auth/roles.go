package auth

import "github.com/gofiber/fiber/v2"

// RequireUser redirects anonymous callers to the login page. Redirecting,
// not erroring, is the contract for browser form flows.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUser(c); !ok {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RequireAdmin requires a user and sends non-admins back to the customer
// workspace.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		if !user.IsAdmin() {
			return c.Redirect("/account", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}
