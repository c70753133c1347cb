// Package policy decides who may see or change a ticket, independent of
// where the ticket is in its lifecycle.
package policy

import "github.com/spec-kit/helpdesk-service/internal/domain"

// CanViewOrComment governs reading a ticket and reading or adding comments.
func CanViewOrComment(p domain.Principal, ticket *domain.Ticket) bool {
	if !p.Valid() || ticket == nil {
		return false
	}
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAgent:
		return ticket.IsCreator(p.UserID) || ticket.IsAssignee(p.UserID)
	case domain.RoleEmployee:
		return ticket.IsCreator(p.UserID)
	default:
		return false
	}
}

// CanCreateTicket reports whether p may file new tickets.
func CanCreateTicket(p domain.Principal) bool {
	if !p.Valid() {
		return false
	}
	switch p.Role {
	case domain.RoleEmployee:
		return true
	case domain.RoleAgent, domain.RoleAdmin:
		return false
	default:
		return false
	}
}

// CanEditFields governs title, description and priority edits. An assigned
// agent can view and comment but not edit.
func CanEditFields(p domain.Principal, ticket *domain.Ticket) bool {
	if !p.Valid() || ticket == nil {
		return false
	}
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAgent, domain.RoleEmployee:
		return ticket.IsCreator(p.UserID)
	default:
		return false
	}
}

// CanAssign reports whether p may hand the ticket to an agent. The creator of
// a ticket never assigns it, even as an admin.
func CanAssign(p domain.Principal, ticket *domain.Ticket) bool {
	if !p.Valid() || ticket == nil {
		return false
	}
	switch p.Role {
	case domain.RoleAdmin:
		return !ticket.IsCreator(p.UserID)
	case domain.RoleAgent, domain.RoleEmployee:
		return false
	default:
		return false
	}
}

// CanListAll reports whether p may list every ticket in the system.
func CanListAll(p domain.Principal) bool {
	if !p.Valid() {
		return false
	}
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAgent, domain.RoleEmployee:
		return false
	default:
		return false
	}
}
