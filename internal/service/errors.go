package service

import "errors"

// Sentinel errors for specifically anticipated failures. Handlers translate
// these into redirect result codes; everything else propagates as a request
// failure.
var (
	ErrMissingFields          = errors.New("required fields missing")
	ErrPasswordTooShort       = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailRequired          = errors.New("email is required")
	ErrPasswordFieldsRequired = errors.New("all password fields are required")
	ErrPasswordIncorrect      = errors.New("current password is incorrect")

	ErrPackageNotFound = errors.New("service package not found")

	ErrOrdersClosed        = errors.New("site is not accepting orders")
	ErrCartUnavailable     = errors.New("cart storage is unavailable")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrCustomQuoteCheckout = errors.New("custom-quote packages cannot be checked out")
	ErrCheckoutUnavailable = errors.New("payment provider returned no checkout URL")

	ErrInvalidTransition = errors.New("order status transition not allowed")
)

const minPasswordLength = 8
