package dto

// RegisterForm is the registration form payload.
type RegisterForm struct {
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
	FirstName       string `form:"firstName"`
	LastName        string `form:"lastName"`
}

// LoginForm is the login form payload.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// EmailUpdateForm changes the account email.
type EmailUpdateForm struct {
	Email string `form:"email"`
}

// PasswordUpdateForm changes the account password.
type PasswordUpdateForm struct {
	CurrentPassword string `form:"currentPassword"`
	NewPassword     string `form:"newPassword"`
	ConfirmPassword string `form:"confirmPassword"`
}

// AddToCartForm adds one unit of a package by slug.
type AddToCartForm struct {
	Slug string `form:"slug"`
}

// CartQuantityForm overwrites a cart item quantity.
type CartQuantityForm struct {
	ItemID   string `form:"itemId"`
	Quantity int    `form:"quantity"`
}

// CartItemForm targets a cart item for removal.
type CartItemForm struct {
	ItemID string `form:"itemId"`
}

// OrderActionForm targets an order for an admin transition.
type OrderActionForm struct {
	OrderID string `form:"orderId"`
}

// PackageForm is the admin create/update payload. Checkbox fields arrive as
// "on" when ticked.
type PackageForm struct {
	ID                  string `form:"id"`
	Name                string `form:"name"`
	Slug                string `form:"slug"`
	Summary             string `form:"summary"`
	Price               string `form:"price"`
	MaxPages            string `form:"maxPages"`
	IsCustomQuote       string `form:"isCustomQuote"`
	IncludesBackend     string `form:"includesBackend"`
	IncludesDatabase    string `form:"includesDatabase"`
	IncludesHosting     string `form:"includesHosting"`
	IncludesAdminPanel  string `form:"includesAdminPanel"`
	RequiresKickoffCall string `form:"requiresKickoffCall"`
	Status              string `form:"status"`
}

// Checked reports whether a checkbox value was ticked.
func Checked(value string) bool {
	return value == "on" || value == "true"
}

// AcceptingOrdersForm toggles the site-wide order gate.
type AcceptingOrdersForm struct {
	AcceptingOrders string `form:"acceptingOrders"`
}
