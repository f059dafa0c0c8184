package applications

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"approved to payment_pending", StatusApproved, StatusPaymentPending, true},
		{"payment_pending to booking_confirmed", StatusPaymentPending, StatusBookingConfirmed, true},

		{"pending straight to booking_confirmed", StatusPending, StatusBookingConfirmed, false},
		{"pending to payment_pending", StatusPending, StatusPaymentPending, false},
		{"approved to rejected", StatusApproved, StatusRejected, false},
		{"approved to booking_confirmed", StatusApproved, StatusBookingConfirmed, false},
		{"rejected to approved", StatusRejected, StatusApproved, false},
		{"rejected to pending", StatusRejected, StatusPending, false},
		{"booking_confirmed to anything", StatusBookingConfirmed, StatusPending, false},
		{"payment_pending back to approved", StatusPaymentPending, StatusApproved, false},
		{"self transition", StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusBookingConfirmed.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.False(t, StatusPaymentPending.IsTerminal())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.False(t, Status("cancelled").IsValid())
	assert.False(t, Status("").IsValid())
}
