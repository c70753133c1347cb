package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Comment string `json:"comment"`
}

// Validate requires a non-blank comment.
func (r CreateCommentRequest) Validate() error {
	if strings.TrimSpace(r.Comment) == "" {
		return apperrors.NewValidationError("invalid comment payload", map[string]any{"comment": "required"})
	}
	return nil
}

// CommentResponse is the comment projection.
type CommentResponse struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	UserID    int64     `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCommentResponse maps the domain comment.
func NewCommentResponse(c *domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		UserID:    c.UserID,
		Comment:   c.Comment,
		CreatedAt: c.CreatedAt,
	}
}

// NewCommentResponses maps a thread.
func NewCommentResponses(comments []domain.TicketComment) []CommentResponse {
	result := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, NewCommentResponse(&comments[i]))
	}
	return result
}
