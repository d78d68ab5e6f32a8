package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tidywork/studio-service/internal/auth"
	"github.com/tidywork/studio-service/internal/config"
	"github.com/tidywork/studio-service/internal/domain"
	"github.com/tidywork/studio-service/internal/repository"
)

// AuthService coordinates registration, login, sessions, and profile edits.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	bcryptCost int
	sessionTTL time.Duration
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	ttlDays := cfg.SessionTTLDays
	if ttlDays <= 0 {
		ttlDays = 30
	}
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionRepo,
		bcryptCost: cfg.BcryptCost,
		sessionTTL: time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

// Register creates a customer account. Duplicate emails surface as
// ErrEmailTaken rather than a raw store error.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" || input.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.UserRoleCustomer,
		FirstName:    optionalName(input.FirstName),
		LastName:     optionalName(input.LastName),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords produce the same error so account existence never leaks.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CreateSession issues an unguessable token persisted with a 30-day expiry.
func (s *AuthService) CreateSession(ctx context.Context, userID string) (*domain.Session, error) {
	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// DestroySession deletes the session row for a token; a missing row is fine.
func (s *AuthService) DestroySession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteByToken(ctx, token)
}

// UpdateEmail changes the account email, translating uniqueness conflicts.
func (s *AuthService) UpdateEmail(ctx context.Context, userID, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}
	if err := s.users.UpdateEmail(ctx, userID, email); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// UpdatePassword verifies the current password before storing the new hash.
// No mutation happens on any validation failure.
func (s *AuthService) UpdatePassword(ctx context.Context, user *domain.User, currentPassword, newPassword, confirmPassword string) error {
	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		return ErrPasswordFieldsRequired
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return ErrPasswordIncorrect
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, user.ID, hash)
}

// NormalizeEmail lowercases and trims an address for case-normalized storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalName(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
