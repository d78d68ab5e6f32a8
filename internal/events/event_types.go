package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated   EventType = "order_created"
	EventOrderPaid      EventType = "order_paid"
	EventOrderDelivered EventType = "order_delivered"
	EventOrderCancelled EventType = "order_cancelled"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	TotalCents          int64  `json:"total_cents"`
	Currency            string `json:"currency"`
	ItemCount           int    `json:"item_count"`
	RequiresKickoffCall bool   `json:"requires_kickoff_call"`
}

// OrderPaidPayload payload.
type OrderPaidPayload struct {
	AmountCents int64   `json:"amount_cents"`
	Currency    string  `json:"currency"`
	ProviderRef *string `json:"provider_ref,omitempty"`
}

// OrderDeliveredPayload payload.
type OrderDeliveredPayload struct {
	DeliveredAt      time.Time `json:"delivered_at"`
	SupportExpiresAt time.Time `json:"support_expires_at"`
}

// OrderCancelledPayload payload.
type OrderCancelledPayload struct {
	PreviousStatus string `json:"previous_status"`
}
