package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketTransitionsAreForwardOnly(t *testing.T) {
	tests := []struct {
		name    string
		from    TicketStatus
		to      TicketStatus
		allowed bool
	}{
		{"open to in_progress", TicketOpen, TicketInProgress, true},
		{"open to resolved", TicketOpen, TicketResolved, true},
		{"open straight to closed", TicketOpen, TicketClosed, true},
		{"in_progress to resolved", TicketInProgress, TicketResolved, true},
		{"resolved to closed", TicketResolved, TicketClosed, true},

		{"no reopening from closed", TicketClosed, TicketOpen, false},
		{"no reopening from resolved", TicketResolved, TicketInProgress, false},
		{"no backing out of in_progress", TicketInProgress, TicketOpen, false},
		{"no self transition", TicketInProgress, TicketInProgress, false},
		{"closed is terminal", TicketClosed, TicketResolved, false},
		{"unknown target", TicketOpen, TicketStatus("escalated"), false},
		{"unknown source", TicketStatus("escalated"), TicketClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTicketStatusIsValid(t *testing.T) {
	assert.True(t, TicketOpen.IsValid())
	assert.True(t, TicketClosed.IsValid())
	assert.False(t, TicketStatus("escalated").IsValid())
	assert.False(t, TicketStatus("").IsValid())
}
