package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/clock"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/lifecycle"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CommentService manages ticket comment threads.
type CommentService struct {
	tickets  repository.TicketRepository
	comments repository.CommentRepository
	clock    clock.Clock
	logger   *zap.Logger
}

// CommentDependencies bundles collaborators for comment service.
type CommentDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	Clock       clock.Clock
	Logger      *zap.Logger
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	svc := &CommentService{
		tickets:  deps.TicketRepo,
		comments: deps.CommentRepo,
		clock:    deps.Clock,
		logger:   deps.Logger,
	}
	if svc.clock == nil {
		svc.clock = clock.Real()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// AddComment appends a comment to a ticket the caller can see.
// Closed tickets accept no comments, whoever asks.
func (s *CommentService) AddComment(ctx context.Context, p domain.Principal, ticketID int64, text string) (*domain.TicketComment, error) {
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
	if err := lifecycle.CheckEditable(ticket); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment must not be empty", nil)
	}

	comment := &domain.TicketComment{
		TicketID:  ticket.ID,
		UserID:    p.UserID,
		Comment:   text,
		CreatedAt: s.clock.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Debug("comment added",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("comment_id", comment.ID),
		zap.Int64("user_id", p.UserID),
	)
	return comment, nil
}

// ListComments returns the thread of a ticket the caller can see, oldest first.
func (s *CommentService) ListComments(ctx context.Context, p domain.Principal, ticketID int64) ([]domain.TicketComment, error) {
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
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}
