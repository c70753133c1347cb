package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/clock"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

var (
	employee1 = domain.Principal{UserID: 1, Role: domain.RoleEmployee}
	employee2 = domain.Principal{UserID: 2, Role: domain.RoleEmployee}
	employee3 = domain.Principal{UserID: 3, Role: domain.RoleEmployee}
	agent5    = domain.Principal{UserID: 5, Role: domain.RoleAgent}
	agent7    = domain.Principal{UserID: 7, Role: domain.RoleAgent}
	admin9    = domain.Principal{UserID: 9, Role: domain.RoleAdmin}
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *repotest.Store
	clock    *clock.FakeClock
	tickets  *TicketService
	comments *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repotest.NewStore()
	for _, p := range []domain.Principal{employee1, employee2, employee3, agent5, agent7, admin9} {
		store.SeedUser(domain.User{
			ID:       p.UserID,
			Name:     "user",
			Email:    fmt.Sprintf("%s%d@example.com", p.Role, p.UserID),
			Role:     p.Role,
			IsActive: true,
		})
	}
	return newFixtureWithTickets(store, store.Tickets())
}

func newFixtureWithTickets(store *repotest.Store, tickets repository.TicketRepository) *fixture {
	fake := clock.Fake(epoch)
	return &fixture{
		store: store,
		clock: fake,
		tickets: NewTicketService(TicketDependencies{
			TicketRepo: tickets,
			UserRepo:   store.Users(),
			Clock:      fake,
		}),
		comments: NewCommentService(CommentDependencies{
			TicketRepo:  tickets,
			CommentRepo: store.Comments(),
			Clock:       fake,
		}),
	}
}

func (f *fixture) createTicket(t *testing.T, p domain.Principal) *domain.Ticket {
	t.Helper()
	ticket, err := f.tickets.CreateTicket(context.Background(), p, TicketCreateInput{
		Title:       "VPN is down",
		Description: "Cannot connect since this morning",
		Priority:    domain.TicketPriorityHigh,
	})
	require.NoError(t, err)
	return ticket
}

func (f *fixture) stored(t *testing.T, id int64) domain.Ticket {
	t.Helper()
	ticket, err := f.store.Tickets().GetByID(context.Background(), id)
	require.NoError(t, err)
	return *ticket
}

// walk drives a fresh ticket to the requested status through the public operations.
func (f *fixture) walk(t *testing.T, to domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ctx := context.Background()
	ticket := f.createTicket(t, employee1)
	steps := []func() (*domain.Ticket, error){
		func() (*domain.Ticket, error) { return f.tickets.AssignTicket(ctx, admin9, ticket.ID, agent5.UserID) },
		func() (*domain.Ticket, error) {
			return f.tickets.UpdateStatus(ctx, agent5, ticket.ID, domain.TicketStatusInProgress)
		},
		func() (*domain.Ticket, error) {
			return f.tickets.UpdateStatus(ctx, agent5, ticket.ID, domain.TicketStatusResolved)
		},
		func() (*domain.Ticket, error) { return f.tickets.CloseTicket(ctx, agent5, ticket.ID) },
	}
	for _, step := range steps {
		if ticket.Status == to {
			break
		}
		var err error
		ticket, err = step()
		require.NoError(t, err)
	}
	require.Equal(t, to, ticket.Status)
	return ticket
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4}}
}
