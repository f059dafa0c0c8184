package stalls

// InstanceStatus represents the stored status of a stall instance
type InstanceStatus string

const (
	StatusAvailable        InstanceStatus = "available"
	StatusPending          InstanceStatus = "pending"
	StatusBooked           InstanceStatus = "booked"
	StatusUnderMaintenance InstanceStatus = "under_maintenance"
)

// IsValid checks if the status is a known value
func (s InstanceStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusPending, StatusBooked, StatusUnderMaintenance:
		return true
	}
	return false
}

// DeriveDisplayStatus computes the status shown on the floor plan.
// A pending application takes precedence over a confirmed booking:
// a stall with an application still in flight must read as pending
// even if a stale booking row says otherwise.
func DeriveDisplayStatus(stored InstanceStatus, hasPendingApplication, hasConfirmedBooking bool) InstanceStatus {
	if hasPendingApplication {
		return StatusPending
	}
	if hasConfirmedBooking {
		return StatusBooked
	}
	return stored
}
