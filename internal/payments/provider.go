package payments

import "context"

// CheckoutLine is one priced line of a provider checkout session. Amounts
// mirror the cart exactly.
type CheckoutLine struct {
	Name            string
	Description     string
	UnitAmountCents int64
	Quantity        int64
}

// CheckoutSessionInput describes the hosted payment page to create. OrderID
// travels both in structured metadata and the provider's own reference field
// in case one channel is stripped.
type CheckoutSessionInput struct {
	OrderID       string
	UserID        string
	CustomerEmail string
	Currency      string
	Lines         []CheckoutLine
	SuccessURL    string
	CancelURL     string
}

// CheckoutSessionResult carries the provider identifiers. URL may be empty;
// callers must fail closed when it is.
type CheckoutSessionResult struct {
	SessionID string
	URL       string
}

// CompletedCheckout is the normalized payload of a completed-checkout event.
type CompletedCheckout struct {
	OrderID         string
	SessionID       string
	PaymentIntentID *string
	AmountCents     int64
	Currency        string
}

// Provider creates hosted checkout sessions with the payment provider.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSessionResult, error)
}
