package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to paid", OrderStatusPending, OrderStatusPaid, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"pending to delivered", OrderStatusPending, OrderStatusDelivered, false},
		{"paid to delivered", OrderStatusPaid, OrderStatusDelivered, true},
		{"paid to cancelled", OrderStatusPaid, OrderStatusCancelled, true},
		{"paid to pending", OrderStatusPaid, OrderStatusPending, false},
		{"delivered to cancelled", OrderStatusDelivered, OrderStatusCancelled, false},
		{"delivered to paid", OrderStatusDelivered, OrderStatusPaid, false},
		{"cancelled to paid", OrderStatusCancelled, OrderStatusPaid, false},
		{"cancelled to pending", OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusPaid.Terminal())
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
}
