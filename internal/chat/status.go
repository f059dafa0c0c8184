package chat

// TicketStatus represents the state of a support ticket
type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

// ticketOrder gives each status a rank; transitions may only move
// forward, so a closed or resolved ticket can never be reopened.
var ticketOrder = map[TicketStatus]int{
	TicketOpen:       0,
	TicketInProgress: 1,
	TicketResolved:   2,
	TicketClosed:     3,
}

// IsValid checks if the status is a known value
func (s TicketStatus) IsValid() bool {
	_, ok := ticketOrder[s]
	return ok
}

// CanTransitionTo allows only strictly forward moves
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	from, ok := ticketOrder[s]
	if !ok {
		return false
	}
	to, ok := ticketOrder[target]
	if !ok {
		return false
	}
	return to > from
}
