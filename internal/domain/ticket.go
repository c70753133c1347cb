package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists the lifecycle in order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusAssigned,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// ParseTicketStatus converts a wire value into a TicketStatus.
func ParseTicketStatus(value string) (TicketStatus, error) {
	status := TicketStatus(value)
	if !status.Valid() {
		return "", fmt.Errorf("unknown ticket status %q", value)
	}
	return status, nil
}

// Valid reports whether s is one of the five lifecycle states.
func (s TicketStatus) Valid() bool {
	_, ok := s.index()
	return ok
}

// Next returns the single successor of s. Closed has none.
func (s TicketStatus) Next() (TicketStatus, bool) {
	i, ok := s.index()
	if !ok || i == len(TicketStatuses)-1 {
		return "", false
	}
	return TicketStatuses[i+1], true
}

// Terminal reports whether no further change is allowed.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusClosed
}

func (s TicketStatus) index() (int, bool) {
	for i, candidate := range TicketStatuses {
		if candidate == s {
			return i, true
		}
	}
	return 0, false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// ParseTicketPriority converts a wire value into a TicketPriority.
func ParseTicketPriority(value string) (TicketPriority, error) {
	switch p := TicketPriority(value); p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return p, nil
	default:
		return "", fmt.Errorf("unknown ticket priority %q", value)
	}
}

// Ticket is the aggregate for helpdesk requests.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	CreatedBy   int64
	AssignedTo  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCreator reports whether userID filed the ticket.
func (t *Ticket) IsCreator(userID int64) bool {
	return t.CreatedBy == userID
}

// IsAssignee reports whether userID is the assigned agent.
func (t *Ticket) IsAssignee(userID int64) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}
