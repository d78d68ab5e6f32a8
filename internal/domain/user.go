package domain

import "time"

// UserRole separates customers from studio admins.
type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleAdmin    UserRole = "ADMIN"
)

// User is the domain model for registered accounts.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         UserRole
	FirstName    *string
	LastName     *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user may access the admin console.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}
