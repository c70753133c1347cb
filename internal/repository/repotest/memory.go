// Package repotest provides in-memory repositories with the same
// contracts as the Postgres implementations, for service and handler tests.
package repotest

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Store holds every table behind one lock so tests observe a consistent view.
type Store struct {
	mu       sync.Mutex
	users    map[int64]domain.User
	tickets  map[int64]domain.Ticket
	comments []domain.TicketComment

	nextUser    int64
	nextTicket  int64
	nextComment int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:   make(map[int64]domain.User),
		tickets: make(map[int64]domain.Ticket),
	}
}

// Users returns a UserRepository over the store.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Tickets returns a TicketRepository over the store.
func (s *Store) Tickets() repository.TicketRepository { return ticketRepo{s} }

// Comments returns a CommentRepository over the store.
func (s *Store) Comments() repository.CommentRepository { return commentRepo{s} }

// SeedUser stores user under its own ID.
func (s *Store) SeedUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	if user.ID > s.nextUser {
		s.nextUser = user.ID
	}
}

// SetTicketStatus overwrites a stored status, simulating a concurrent writer.
func (s *Store) SetTicketStatus(ticketID int64, status domain.TicketStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket, ok := s.tickets[ticketID]; ok {
		ticket.Status = status
		s.tickets[ticketID] = ticket
	}
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	r.s.nextUser++
	user.ID = r.s.nextUser
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := []domain.User{}
	for id := int64(1); id <= r.s.nextUser; id++ {
		if user, ok := r.s.users[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}

type ticketRepo struct{ s *Store }

func (r ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextTicket++
	ticket.ID = r.s.nextTicket
	r.s.tickets[ticket.ID] = copyTicket(*ticket)
	return nil
}

func (r ticketRepo) Update(_ context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tickets[ticket.ID]
	if !ok || stored.Status != expected {
		return repository.ErrStaleTicket
	}
	r.s.tickets[ticket.ID] = copyTicket(*ticket)
	return nil
}

func (r ticketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket = copyTicket(ticket)
	return &ticket, nil
}

func (r ticketRepo) ListByCreator(_ context.Context, userID int64) ([]domain.Ticket, error) {
	return r.list(func(t domain.Ticket) bool { return t.CreatedBy == userID }), nil
}

func (r ticketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	return r.list(func(domain.Ticket) bool { return true }), nil
}

func (r ticketRepo) list(keep func(domain.Ticket) bool) []domain.Ticket {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := []domain.Ticket{}
	for id := int64(1); id <= r.s.nextTicket; id++ {
		if ticket, ok := r.s.tickets[id]; ok && keep(ticket) {
			result = append(result, copyTicket(ticket))
		}
	}
	return result
}

// copyTicket detaches AssignedTo so callers cannot mutate stored state.
func copyTicket(t domain.Ticket) domain.Ticket {
	if t.AssignedTo != nil {
		id := *t.AssignedTo
		t.AssignedTo = &id
	}
	return t
}

type commentRepo struct{ s *Store }

func (r commentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextComment++
	comment.ID = r.s.nextComment
	r.s.comments = append(r.s.comments, *comment)
	return nil
}

func (r commentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketComment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := []domain.TicketComment{}
	for _, comment := range r.s.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	return result, nil
}
