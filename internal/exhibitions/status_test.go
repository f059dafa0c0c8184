package exhibitions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusPublished, true},
		{StatusDraft, StatusCancelled, true},
		{StatusPublished, StatusLive, true},
		{StatusPublished, StatusCancelled, true},
		{StatusLive, StatusCompleted, true},
		{StatusLive, StatusCancelled, true},

		{StatusDraft, StatusLive, false},
		{StatusDraft, StatusCompleted, false},
		{StatusPublished, StatusDraft, false},
		{StatusPublished, StatusCompleted, false},
		{StatusCompleted, StatusLive, false},
		{StatusCancelled, StatusDraft, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestIsAcceptingApplications(t *testing.T) {
	assert.True(t, StatusPublished.IsAcceptingApplications())
	assert.True(t, StatusLive.IsAcceptingApplications())
	assert.False(t, StatusDraft.IsAcceptingApplications())
	assert.False(t, StatusCompleted.IsAcceptingApplications())
	assert.False(t, StatusCancelled.IsAcceptingApplications())
}
