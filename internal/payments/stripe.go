package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeProvider creates hosted checkout sessions via the Stripe API.
type StripeProvider struct{}

// NewStripeProvider configures the Stripe client key once.
func NewStripeProvider(secretKey string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{}
}

// CreateCheckoutSession requests a payment-mode checkout session whose line
// amounts mirror the cart.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSessionResult, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:     stripe.String(input.CustomerEmail),
		ClientReferenceID: stripe.String(input.OrderID),
		SuccessURL:        stripe.String(input.SuccessURL),
		CancelURL:         stripe.String(input.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("serviceOrderId", input.OrderID)
	params.AddMetadata("userId", input.UserID)

	currency := strings.ToLower(input.Currency)
	for _, line := range input.Lines {
		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(currency),
			UnitAmount: stripe.Int64(line.UnitAmountCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(line.Name),
			},
		}
		if line.Description != "" {
			priceData.ProductData.Description = stripe.String(line.Description)
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity:  stripe.Int64(line.Quantity),
			PriceData: priceData,
		})
	}

	created, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}
	return &CheckoutSessionResult{SessionID: created.ID, URL: created.URL}, nil
}

// ParseCompletedCheckout verifies the signature over the raw body and, for a
// checkout.session.completed event, extracts the normalized payload. Any other
// verified event type yields (nil, nil). The order id is read from metadata,
// falling back to the client reference field.
func ParseCompletedCheckout(payload []byte, sigHeader, secret string) (*CompletedCheckout, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, secret)
	if err != nil {
		return nil, err
	}
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("decode checkout session payload: %w", err)
	}

	orderID := session.Metadata["serviceOrderId"]
	if orderID == "" {
		orderID = session.ClientReferenceID
	}

	currency := strings.ToUpper(string(session.Currency))
	if currency == "" {
		currency = "GBP"
	}

	completed := &CompletedCheckout{
		OrderID:     orderID,
		SessionID:   session.ID,
		AmountCents: session.AmountTotal,
		Currency:    currency,
	}
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		id := session.PaymentIntent.ID
		completed.PaymentIntentID = &id
	}
	return completed, nil
}
