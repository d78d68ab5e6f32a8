package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the browser session cookie name.
const SessionCookie = "tw_session"

// SetSessionCookie writes the session token cookie: HTTP-only, SameSite=Lax,
// whole-site path, secure outside development.
func SetSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
		Path:     "/",
	})
}

// ClearSessionCookie expires the cookie regardless of whether a session row
// existed for it.
func ClearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
		Path:     "/",
	})
}
