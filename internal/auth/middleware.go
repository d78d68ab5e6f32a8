package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/tidywork/studio-service/internal/domain"
	"github.com/tidywork/studio-service/internal/repository"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller resolved from the session
// cookie. A nil User means the request is anonymous.
type Principal struct {
	User    *domain.User
	Session *domain.Session
}

// SessionMiddleware resolves the session cookie once per request and memoizes
// the result in request locals, so handlers never repeat the lookup.
type SessionMiddleware struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions repository.SessionRepository, users repository.UserRepository) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, users: users}
}

// Handle loads the current user, if any. Missing, unknown, and expired tokens
// all resolve to an anonymous principal; expired rows are left in place and
// simply become invisible.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookie)
	if token == "" {
		c.Locals(principalKey, &Principal{})
		return c.Next()
	}

	session, err := m.sessions.GetByToken(c.Context(), token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.Locals(principalKey, &Principal{})
			return c.Next()
		}
		return err
	}
	if session.Expired(time.Now()) {
		c.Locals(principalKey, &Principal{})
		return c.Next()
	}

	user, err := m.users.GetByID(c.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.Locals(principalKey, &Principal{})
			return c.Next()
		}
		return err
	}

	c.Locals(principalKey, &Principal{User: user, Session: session})
	return c.Next()
}

// CurrentUser returns the memoized user for this request, if any.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	principal, ok := val.(*Principal)
	if !ok || principal.User == nil {
		return nil, false
	}
	return principal.User, true
}
