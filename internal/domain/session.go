package domain

import "time"

// Session is an opaque-token browser session. Expired rows are not purged
// inline; they become invisible on the next lookup.
type Session struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || s.ExpiresAt.Before(now)
}
