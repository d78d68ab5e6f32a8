package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tidywork/studio-service/internal/api/dto"
	"github.com/tidywork/studio-service/internal/auth"
	"github.com/tidywork/studio-service/internal/service"
)

// AuthHandler exposes registration, login, logout, and profile edits. All
// flows answer with redirects carrying query-string result codes; that is the
// wire format the front end renders.
type AuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: authService, secureCookie: secureCookie}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterForm
	if err := c.BodyParser(&req); err != nil {
		return redirectWithError(c, "/register", "missing_fields")
	}

	user, err := h.auth.Register(c.Context(), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return redirectWithError(c, "/register", "missing_fields")
		case errors.Is(err, service.ErrPasswordTooShort):
			return redirectWithError(c, "/register", "password_too_short")
		case errors.Is(err, service.ErrPasswordMismatch):
			return redirectWithError(c, "/register", "password_mismatch")
		case errors.Is(err, service.ErrEmailTaken):
			return redirectWithError(c, "/register", "email_taken")
		default:
			return err
		}
	}

	if err := h.startSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect("/account", fiber.StatusSeeOther)
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginForm
	if err := c.BodyParser(&req); err != nil {
		return redirectWithError(c, "/login", "missing_fields")
	}

	user, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return redirectWithError(c, "/login", "missing_fields")
		case errors.Is(err, service.ErrInvalidCredentials):
			return redirectWithError(c, "/login", "invalid_credentials")
		default:
			return err
		}
	}

	if err := h.startSession(c, user.ID); err != nil {
		return err
	}
	if user.IsAdmin() {
		return c.Redirect("/admin/orders", fiber.StatusSeeOther)
	}
	return c.Redirect("/account", fiber.StatusSeeOther)
}

// Logout handles POST /logout. The cookie is cleared whether or not a session
// row existed for it.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(auth.SessionCookie)
	if err := h.auth.DestroySession(c.Context(), token); err != nil {
		return err
	}
	auth.ClearSessionCookie(c, h.secureCookie)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// UpdateEmail handles POST /account/profile/email.
func (h *AuthHandler) UpdateEmail(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	var req dto.EmailUpdateForm
	if err := c.BodyParser(&req); err != nil {
		return redirectWithError(c, "/account/profile", "email_required")
	}

	if err := h.auth.UpdateEmail(c.Context(), user.ID, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			return redirectWithError(c, "/account/profile", "email_required")
		case errors.Is(err, service.ErrEmailTaken):
			return redirectWithError(c, "/account/profile", "email_taken")
		default:
			return err
		}
	}
	return redirectWithSuccess(c, "/account/profile", "email_updated")
}

// UpdatePassword handles POST /account/profile/password.
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	user, _ := auth.CurrentUser(c)

	var req dto.PasswordUpdateForm
	if err := c.BodyParser(&req); err != nil {
		return redirectWithError(c, "/account/profile", "password_fields_required")
	}

	err := h.auth.UpdatePassword(c.Context(), user, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordFieldsRequired):
			return redirectWithError(c, "/account/profile", "password_fields_required")
		case errors.Is(err, service.ErrPasswordMismatch):
			return redirectWithError(c, "/account/profile", "password_mismatch")
		case errors.Is(err, service.ErrPasswordTooShort):
			return redirectWithError(c, "/account/profile", "password_too_short")
		case errors.Is(err, service.ErrPasswordIncorrect):
			return redirectWithError(c, "/account/profile", "password_incorrect")
		default:
			return err
		}
	}
	return redirectWithSuccess(c, "/account/profile", "password_updated")
}

func (h *AuthHandler) startSession(c *fiber.Ctx, userID string) error {
	session, err := h.auth.CreateSession(c.Context(), userID)
	if err != nil {
		return err
	}
	auth.SetSessionCookie(c, session.Token, session.ExpiresAt, h.secureCookie)
	return nil
}

func redirectWithError(c *fiber.Ctx, path, code string) error {
	return c.Redirect(path+"?error="+code, fiber.StatusSeeOther)
}

func redirectWithSuccess(c *fiber.Ctx, path, code string) error {
	return c.Redirect(path+"?success="+code, fiber.StatusSeeOther)
}
