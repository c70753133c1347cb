// Package lifecycle enforces the ticket status chain
//
//	open -> assigned -> in_progress -> resolved -> closed
//
// together with the role and ownership guard attached to each edge. Guards
// return *util.DomainError values; mutations are only applied by Assign and
// Advance after the matching check has passed.
package lifecycle

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const (
	msgClosed            = "closed tickets cannot be edited"
	msgInvalidTransition = "invalid status transition"
	msgInvalidCurrent    = "invalid current ticket status"
	msgMustBeResolved    = "ticket must be resolved before closing"
	msgAssignOnly        = "tickets move to assigned only through assignment"
)

// CheckEditable fails once a ticket is closed. Every mutation runs it first.
func CheckEditable(ticket *domain.Ticket) error {
	if ticket.Status.Terminal() {
		return apperrors.NewInvalidState(msgClosed, map[string]any{"ticket_id": ticket.ID})
	}
	return nil
}

// CheckPriorityChange allows priority edits only before assignment.
func CheckPriorityChange(ticket *domain.Ticket) error {
	if err := CheckEditable(ticket); err != nil {
		return err
	}
	if ticket.Status != domain.TicketStatusOpen {
		return apperrors.NewInvalidState("priority cannot be changed after assignment", map[string]any{
			"status": ticket.Status,
		})
	}
	return nil
}

// CheckTransition validates a request to move ticket to next on behalf of p.
// The state guard runs before the role guard, so an out-of-order request is
// rejected as invalid even for an admin.
func CheckTransition(p domain.Principal, ticket *domain.Ticket, next domain.TicketStatus) error {
	if err := CheckEditable(ticket); err != nil {
		return err
	}
	if !p.Valid() {
		return apperrors.NewUnauthorized(domain.ErrInvalidPrincipal.Error())
	}
	expected, ok := ticket.Status.Next()
	if !ok {
		return apperrors.NewInvalidState(msgInvalidCurrent, map[string]any{"status": ticket.Status})
	}
	if next != expected {
		return apperrors.NewInvalidState(msgInvalidTransition, map[string]any{
			"from":     ticket.Status,
			"to":       next,
			"expected": expected,
		})
	}

	switch next {
	case domain.TicketStatusAssigned:
		if err := checkAssigner(p, ticket); err != nil {
			return err
		}
		return apperrors.NewInvalidState(msgAssignOnly, nil)
	case domain.TicketStatusInProgress:
		return checkStart(p, ticket)
	case domain.TicketStatusResolved:
		return checkAgentOrAdmin(p, ticket, "resolve")
	case domain.TicketStatusClosed:
		return checkAgentOrAdmin(p, ticket, "close")
	default:
		return apperrors.NewInvalidState(msgInvalidTransition, nil)
	}
}

// CheckClose guards the explicit close action: the ticket must already be
// resolved, then the resolved -> closed edge applies.
func CheckClose(p domain.Principal, ticket *domain.Ticket) error {
	if err := CheckEditable(ticket); err != nil {
		return err
	}
	if ticket.Status != domain.TicketStatusResolved {
		return apperrors.NewInvalidState(msgMustBeResolved, map[string]any{"status": ticket.Status})
	}
	return CheckTransition(p, ticket, domain.TicketStatusClosed)
}

// CheckAssign validates the caller side of open -> assigned.
func CheckAssign(p domain.Principal, ticket *domain.Ticket) error {
	if err := CheckEditable(ticket); err != nil {
		return err
	}
	if !p.Valid() {
		return apperrors.NewUnauthorized(domain.ErrInvalidPrincipal.Error())
	}
	return checkAssigner(p, ticket)
}

// CheckAssignee validates the target side of open -> assigned.
func CheckAssignee(ticket *domain.Ticket, agent *domain.User) error {
	if agent.Role != domain.RoleAgent {
		return apperrors.NewInvalidState("user is not an agent", map[string]any{"user_id": agent.ID})
	}
	if ticket.Status != domain.TicketStatusOpen {
		return apperrors.NewInvalidState("ticket can be assigned only when status is open", map[string]any{
			"status": ticket.Status,
		})
	}
	return nil
}

// Assign sets the assignee and advances to assigned in one step.
func Assign(ticket *domain.Ticket, agentID int64) {
	ticket.AssignedTo = &agentID
	ticket.Status = domain.TicketStatusAssigned
}

// Advance moves the ticket to next. Callers run CheckTransition first.
func Advance(ticket *domain.Ticket, next domain.TicketStatus) {
	ticket.Status = next
}

func checkAssigner(p domain.Principal, ticket *domain.Ticket) error {
	switch p.Role {
	case domain.RoleAdmin:
		if !policy.CanAssign(p, ticket) {
			return apperrors.NewForbidden("ticket creator cannot assign ticket")
		}
		return nil
	case domain.RoleAgent, domain.RoleEmployee:
		return apperrors.NewForbidden("only admin can assign tickets")
	default:
		return apperrors.NewUnauthorized(domain.ErrInvalidPrincipal.Error())
	}
}

func checkStart(p domain.Principal, ticket *domain.Ticket) error {
	switch p.Role {
	case domain.RoleAgent:
		if !ticket.IsAssignee(p.UserID) {
			return apperrors.NewForbidden("agent can update only assigned tickets")
		}
		return nil
	case domain.RoleAdmin, domain.RoleEmployee:
		return apperrors.NewForbidden("only agent can move ticket to in_progress")
	default:
		return apperrors.NewUnauthorized(domain.ErrInvalidPrincipal.Error())
	}
}

func checkAgentOrAdmin(p domain.Principal, ticket *domain.Ticket, verb string) error {
	switch p.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleAgent:
		if !ticket.IsAssignee(p.UserID) {
			return apperrors.NewForbidden("agent can " + verb + " only assigned tickets")
		}
		return nil
	case domain.RoleEmployee:
		return apperrors.NewForbidden("only agent or admin can " + verb + " ticket")
	default:
		return apperrors.NewUnauthorized(domain.ErrInvalidPrincipal.Error())
	}
}
