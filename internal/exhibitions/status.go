package exhibitions

// Status represents the lifecycle status of an exhibition
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// validTransitions defines which status changes are allowed.
// Draft listings can be published or cancelled; published listings go
// live when the event starts, complete when it ends, or get cancelled.
var validTransitions = map[Status][]Status{
	StatusDraft:     {StatusPublished, StatusCancelled},
	StatusPublished: {StatusLive, StatusCancelled},
	StatusLive:      {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusLive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsAcceptingApplications reports whether stall applications may be
// submitted for an exhibition in this status.
func (s Status) IsAcceptingApplications() bool {
	return s == StatusPublished || s == StatusLive
}
