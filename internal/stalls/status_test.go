package stalls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDisplayStatus(t *testing.T) {
	tests := []struct {
		name    string
		stored  InstanceStatus
		pending bool
		booked  bool
		want    InstanceStatus
	}{
		{"no overrides", StatusAvailable, false, false, StatusAvailable},
		{"pending application wins", StatusAvailable, true, false, StatusPending},
		{"confirmed booking wins over stored", StatusAvailable, false, true, StatusBooked},
		{"pending wins over booking", StatusBooked, true, true, StatusPending},
		{"maintenance passes through", StatusUnderMaintenance, false, false, StatusUnderMaintenance},
		{"pending wins over maintenance", StatusUnderMaintenance, true, false, StatusPending},
		{"stale stored status corrected by booking", StatusPending, false, true, StatusBooked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveDisplayStatus(tt.stored, tt.pending, tt.booked))
		})
	}
}

func TestInstanceStatusIsValid(t *testing.T) {
	assert.True(t, StatusAvailable.IsValid())
	assert.True(t, StatusUnderMaintenance.IsValid())
	assert.False(t, InstanceStatus("reserved").IsValid())
	assert.False(t, InstanceStatus("").IsValid())
}
