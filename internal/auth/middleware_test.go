package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidywork/studio-service/internal/domain"
)

type stubSessionRepo struct {
	sessions map[string]*domain.Session
}

func (r *stubSessionRepo) Create(_ context.Context, session *domain.Session) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *stubSessionRepo) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	session, ok := r.sessions[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return session, nil
}

func (r *stubSessionRepo) DeleteByToken(_ context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepo) UpdateEmail(context.Context, string, string) error { return nil }

func (r *stubUserRepo) UpdatePasswordHash(context.Context, string, string) error { return nil }

type guardApp struct {
	app *fiber.App
}

func newGuardApp(role domain.UserRole, expiresAt time.Time) *guardApp {
	users := &stubUserRepo{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Email: "jo@example.com", Role: role, IsActive: true},
	}}
	sessions := &stubSessionRepo{sessions: map[string]*domain.Session{
		"token-1": {ID: "session-1", Token: "token-1", UserID: "user-1", ExpiresAt: expiresAt},
	}}

	app := fiber.New()
	app.Use(NewSessionMiddleware(sessions, users).Handle)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(user.Email)
	})
	app.Get("/account", RequireUser(), func(c *fiber.Ctx) error {
		return c.SendString("account")
	})
	app.Get("/admin", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("admin")
	})
	return &guardApp{app: app}
}

func (g *guardApp) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	resp, err := g.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSessionResolution(t *testing.T) {
	g := newGuardApp(domain.UserRoleCustomer, time.Now().Add(time.Hour))

	resp := g.get(t, "/whoami", "token-1")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "jo@example.com", readBody(t, resp))

	// Missing and unknown tokens both resolve to anonymous.
	resp = g.get(t, "/whoami", "")
	assert.Equal(t, "anonymous", readBody(t, resp))
	resp = g.get(t, "/whoami", "no-such-token")
	assert.Equal(t, "anonymous", readBody(t, resp))
}

func TestExpiredSessionIsAnonymous(t *testing.T) {
	g := newGuardApp(domain.UserRoleCustomer, time.Now().Add(-time.Minute))

	resp := g.get(t, "/whoami", "token-1")
	assert.Equal(t, "anonymous", readBody(t, resp))
}

func TestRequireUser(t *testing.T) {
	g := newGuardApp(domain.UserRoleCustomer, time.Now().Add(time.Hour))

	resp := g.get(t, "/account", "token-1")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = g.get(t, "/account", "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRequireAdmin(t *testing.T) {
	admin := newGuardApp(domain.UserRoleAdmin, time.Now().Add(time.Hour))
	resp := admin.get(t, "/admin", "token-1")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	customer := newGuardApp(domain.UserRoleCustomer, time.Now().Add(time.Hour))
	resp = customer.get(t, "/admin", "token-1")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/account", resp.Header.Get("Location"))

	resp = customer.get(t, "/admin", "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSessionCookieAttributes(t *testing.T) {
	app := fiber.New()
	app.Post("/login", func(c *fiber.Ctx) error {
		SetSessionCookie(c, "token-1", time.Now().Add(30*24*time.Hour), true)
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/logout", func(c *fiber.Ctx) error {
		ClearSessionCookie(c, true)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	setCookie := strings.ToLower(resp.Header.Get("Set-Cookie"))
	assert.Contains(t, setCookie, SessionCookie+"=token-1")
	assert.Contains(t, setCookie, "httponly")
	assert.Contains(t, setCookie, "samesite=lax")
	assert.Contains(t, setCookie, "secure")
	assert.Contains(t, setCookie, "path=/")

	resp, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/logout", nil), -1)
	require.NoError(t, err)
	setCookie = strings.ToLower(resp.Header.Get("Set-Cookie"))
	assert.Contains(t, setCookie, SessionCookie+"=")
	assert.Contains(t, setCookie, "max-age")
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
