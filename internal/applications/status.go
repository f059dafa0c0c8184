package applications

// Status represents the state of a stall application
type Status string

const (
	StatusPending          Status = "pending"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusPaymentPending   Status = "payment_pending"
	StatusBookingConfirmed Status = "booking_confirmed"
)

// validTransitions is the full application state machine. rejected and
// booking_confirmed are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:          {StatusApproved, StatusRejected},
	StatusApproved:         {StatusPaymentPending},
	StatusPaymentPending:   {StatusBookingConfirmed},
	StatusRejected:         {},
	StatusBookingConfirmed: {},
}

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPaymentPending, StatusBookingConfirmed:
		return true
	}
	return false
}

// CanTransitionTo checks if a transition to the target status is legal
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}
