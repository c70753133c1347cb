package domain

import "time"

// TicketComment is an append-only note on a ticket thread.
type TicketComment struct {
	ID        int64
	TicketID  int64
	UserID    int64
	Comment   string
	CreatedAt time.Time
}
