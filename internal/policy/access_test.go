package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func ptr(v int64) *int64 { return &v }

func TestCanViewOrComment(t *testing.T) {
	assigned := &domain.Ticket{ID: 10, CreatedBy: 1, AssignedTo: ptr(5), Status: domain.TicketStatusAssigned}
	open := &domain.Ticket{ID: 11, CreatedBy: 1, Status: domain.TicketStatusOpen}

	cases := []struct {
		name   string
		p      domain.Principal
		ticket *domain.Ticket
		want   bool
	}{
		{"admin any ticket", domain.Principal{UserID: 9, Role: domain.RoleAdmin}, assigned, true},
		{"admin open ticket", domain.Principal{UserID: 9, Role: domain.RoleAdmin}, open, true},
		{"creator", domain.Principal{UserID: 1, Role: domain.RoleEmployee}, assigned, true},
		{"other employee", domain.Principal{UserID: 3, Role: domain.RoleEmployee}, assigned, false},
		{"assigned agent", domain.Principal{UserID: 5, Role: domain.RoleAgent}, assigned, true},
		{"other agent", domain.Principal{UserID: 7, Role: domain.RoleAgent}, assigned, false},
		{"agent before assignment", domain.Principal{UserID: 5, Role: domain.RoleAgent}, open, false},
		{"employee whose id matches assignee", domain.Principal{UserID: 5, Role: domain.RoleEmployee}, assigned, false},
		{"agent who created ticket", domain.Principal{UserID: 1, Role: domain.RoleAgent}, open, true},
		{"unknown role", domain.Principal{UserID: 1, Role: "owner"}, open, false},
		{"zero principal", domain.Principal{}, open, false},
		{"nil ticket", domain.Principal{UserID: 9, Role: domain.RoleAdmin}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanViewOrComment(tc.p, tc.ticket))
		})
	}
}

func TestCanCreateTicket(t *testing.T) {
	assert.True(t, CanCreateTicket(domain.Principal{UserID: 1, Role: domain.RoleEmployee}))
	assert.False(t, CanCreateTicket(domain.Principal{UserID: 1, Role: domain.RoleAgent}))
	assert.False(t, CanCreateTicket(domain.Principal{UserID: 1, Role: domain.RoleAdmin}))
	assert.False(t, CanCreateTicket(domain.Principal{Role: domain.RoleEmployee}))
}

func TestCanEditFields(t *testing.T) {
	ticket := &domain.Ticket{CreatedBy: 1, AssignedTo: ptr(5)}
	assert.True(t, CanEditFields(domain.Principal{UserID: 1, Role: domain.RoleEmployee}, ticket))
	assert.True(t, CanEditFields(domain.Principal{UserID: 9, Role: domain.RoleAdmin}, ticket))
	assert.False(t, CanEditFields(domain.Principal{UserID: 5, Role: domain.RoleAgent}, ticket), "assignee views but cannot edit")
	assert.False(t, CanEditFields(domain.Principal{UserID: 2, Role: domain.RoleEmployee}, ticket))
}

func TestCanAssign(t *testing.T) {
	ticket := &domain.Ticket{CreatedBy: 9}
	assert.False(t, CanAssign(domain.Principal{UserID: 9, Role: domain.RoleAdmin}, ticket), "creator cannot assign")
	assert.True(t, CanAssign(domain.Principal{UserID: 8, Role: domain.RoleAdmin}, ticket))
	assert.False(t, CanAssign(domain.Principal{UserID: 5, Role: domain.RoleAgent}, ticket))
	assert.False(t, CanAssign(domain.Principal{UserID: 1, Role: domain.RoleEmployee}, ticket))
}

func TestCanListAll(t *testing.T) {
	assert.True(t, CanListAll(domain.Principal{UserID: 9, Role: domain.RoleAdmin}))
	assert.False(t, CanListAll(domain.Principal{UserID: 5, Role: domain.RoleAgent}))
	assert.False(t, CanListAll(domain.Principal{UserID: 1, Role: domain.RoleEmployee}))
	assert.False(t, CanListAll(domain.Principal{}))
}
