package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/clock"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/lifecycle"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	clock   clock.Clock
	logger  *zap.Logger
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Clock      clock.Clock
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// TicketUpdateInput carries optional field edits; nil means unchanged.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	svc := &TicketService{
		tickets: deps.TicketRepo,
		users:   deps.UserRepo,
		clock:   deps.Clock,
		logger:  deps.Logger,
	}
	if svc.clock == nil {
		svc.clock = clock.Real()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// CreateTicket files a new ticket for an employee. Status starts open with no assignee.
func (s *TicketService) CreateTicket(ctx context.Context, p domain.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !policy.CanCreateTicket(p) {
		return nil, apperrors.NewForbidden("only employees can create tickets")
	}

	now := s.clock.Now()
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("ticket created",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("created_by", ticket.CreatedBy),
		zap.String("priority", string(ticket.Priority)),
	)
	return ticket, nil
}

// ListMyTickets returns tickets filed by the caller.
func (s *TicketService) ListMyTickets(ctx context.Context, p domain.Principal) ([]domain.Ticket, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByCreator(ctx, p.UserID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAllTickets returns every ticket. Admin only.
func (s *TicketService) ListAllTickets(ctx context.Context, p domain.Principal) ([]domain.Ticket, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !policy.CanListAll(p) {
		return nil, apperrors.NewForbidden("only admin can list all tickets")
	}
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket the caller is allowed to see.
func (s *TicketService) GetTicket(ctx context.Context, p domain.Principal, ticketID int64) (*domain.Ticket, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	ticket, err := loadTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewOrComment(p, ticket) {
		return nil, apperrors.NewForbidden(msgNoTicketAccess)
	}
	return ticket, nil
}

// UpdateTicket edits title, description and priority.
func (s *TicketService) UpdateTicket(ctx context.Context, p domain.Principal, ticketID int64, input TicketUpdateInput) (*domain.Ticket, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	ticket, err := loadTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckEditable(ticket); err != nil {
		return nil, err
	}
	if !policy.CanEditFields(p, ticket) {
		return nil, apperrors.NewForbidden("only ticket creator or admin can edit ticket")
	}
	if input.Priority != nil {
		if err := lifecycle.CheckPriorityChange(ticket); err != nil {
			return nil, err
		}
	}

	prior := ticket.Status
	if input.Title != nil {
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	if err := s.save(ctx, ticket, prior); err != nil {
		return nil, err
	}
	return ticket, nil
}

// AssignTicket hands an open ticket to an agent and moves it to assigned.
func (s *TicketService) AssignTicket(ctx context.Context, p domain.Principal, ticketID, agentID int64) (*domain.Ticket, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	ticket, err := loadTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckAssign(p, ticket); err != nil {
		return nil, err
	}

	agent, err := s.users.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := lifecycle.CheckAssignee(ticket, agent); err != nil {
		return nil, err
	}

	prior := ticket.Status
	lifecycle.Assign(ticket, agent.ID)
	if err := s.save(ctx, ticket, prior); err != nil {
		return nil, err
	}
	s.logger.Info("ticket assigned",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("agent_id", agent.ID),
		zap.Int64("assigned_by", p.UserID),
	)
	return ticket, nil
}

// UpdateStatus advances the ticket one step along the lifecycle.
func (s *TicketService) UpdateStatus(ctx context.Context, p domain.Principal, ticketID int64, next domain.TicketStatus) (*domain.Ticket, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	ticket, err := loadTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckTransition(p, ticket, next); err != nil {
		return nil, err
	}
	return s.advance(ctx, p, ticket, next)
}

// CloseTicket closes a resolved ticket.
func (s *TicketService) CloseTicket(ctx context.Context, p domain.Principal, ticketID int64) (*domain.Ticket, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	ticket, err := loadTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckClose(p, ticket); err != nil {
		return nil, err
	}
	return s.advance(ctx, p, ticket, domain.TicketStatusClosed)
}

func (s *TicketService) advance(ctx context.Context, p domain.Principal, ticket *domain.Ticket, next domain.TicketStatus) (*domain.Ticket, error) {
	prior := ticket.Status
	lifecycle.Advance(ticket, next)
	if err := s.save(ctx, ticket, prior); err != nil {
		return nil, err
	}
	s.logger.Info("ticket status changed",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("from", string(prior)),
		zap.String("to", string(next)),
		zap.Int64("actor_id", p.UserID),
	)
	return ticket, nil
}

// save stamps updated_at and writes the ticket if its status is still prior.
func (s *TicketService) save(ctx context.Context, ticket *domain.Ticket, prior domain.TicketStatus) error {
	ticket.UpdatedAt = s.clock.Now()
	if err := s.tickets.Update(ctx, ticket, prior); err != nil {
		if errors.Is(err, repository.ErrStaleTicket) {
			return apperrors.NewConflict(err.Error(), map[string]any{"ticket_id": ticket.ID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

const msgNoTicketAccess = "not allowed to access this ticket"

func requirePrincipal(p domain.Principal) error {
	if !p.Valid() {
		return apperrors.NewUnauthorized(domain.ErrInvalidPrincipal.Error())
	}
	return nil
}

func loadTicket(ctx context.Context, tickets repository.TicketRepository, ticketID int64) (*domain.Ticket, error) {
	ticket, err := tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}
