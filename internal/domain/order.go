package domain

import "time"

// OrderStatus enumerates the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// PaymentStatus enumerates payment lifecycle states.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// SupportWindow is the implied support period after delivery.
const SupportWindow = 30 * 24 * time.Hour

// Order is an immutable purchase created from a cart at checkout time.
type Order struct {
	ID                      string
	UserID                  string
	Status                  OrderStatus
	Currency                string
	SubtotalCents           int64
	TotalCents              int64
	RequiresKickoffCall     bool
	KickoffCallConfirmed    bool
	KickoffCallConfirmedAt  *time.Time
	DeliveredAt             *time.Time
	SupportExpiresAt        *time.Time
	IsArchived              bool
	ArchivedAt              *time.Time
	StripeCheckoutSessionID *string
	StripePaymentIntentID   *string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// OrderItem snapshots catalog state at order time so later catalog edits do
// not alter historical orders.
type OrderItem struct {
	ID              string
	OrderID         string
	PackageID       string
	ServiceName     string
	Quantity        int
	UnitPriceCents  int64
	TotalPriceCents int64
	CreatedAt       time.Time
}

// Payment is the one-to-one payment record of an order, upserted by the
// provider webhook.
type Payment struct {
	ID          string
	OrderID     string
	Status      PaymentStatus
	ProviderRef *string
	AmountCents int64
	Currency    string
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var allowedOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move between the two statuses.
func CanTransition(current, next OrderStatus) bool {
	for _, candidate := range allowedOrderTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return len(allowedOrderTransitions[s]) == 0
}
