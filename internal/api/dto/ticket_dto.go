package dto

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const (
	maxTitleLength       = 200
	minDescriptionLength = 2
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Validate checks field constraints and converts to service input.
func (r CreateTicketRequest) Validate() (service.TicketCreateInput, error) {
	problems := map[string]any{}
	checkTitle(problems, r.Title)
	checkDescription(problems, r.Description)

	input := service.TicketCreateInput{Title: r.Title, Description: r.Description}
	if r.Priority != "" {
		priority, err := domain.ParseTicketPriority(r.Priority)
		if err != nil {
			problems["priority"] = "must be one of low, medium, high, urgent"
		}
		input.Priority = priority
	}
	if len(problems) > 0 {
		return service.TicketCreateInput{}, apperrors.NewValidationError("invalid ticket payload", problems)
	}
	return input, nil
}

// UpdateTicketRequest carries optional edits; omitted fields stay unchanged.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
}

// Validate checks present fields and converts to service input.
func (r UpdateTicketRequest) Validate() (service.TicketUpdateInput, error) {
	problems := map[string]any{}
	input := service.TicketUpdateInput{Title: r.Title, Description: r.Description}
	if r.Title != nil {
		checkTitle(problems, *r.Title)
	}
	if r.Description != nil {
		checkDescription(problems, *r.Description)
	}
	if r.Priority != nil {
		priority, err := domain.ParseTicketPriority(*r.Priority)
		if err != nil {
			problems["priority"] = "must be one of low, medium, high, urgent"
		}
		input.Priority = &priority
	}
	if len(problems) > 0 {
		return service.TicketUpdateInput{}, apperrors.NewValidationError("invalid ticket payload", problems)
	}
	return input, nil
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AgentID int64 `json:"agent_id"`
}

// Validate requires a positive agent id.
func (r AssignTicketRequest) Validate() error {
	if r.AgentID <= 0 {
		return apperrors.NewValidationError("invalid assign payload", map[string]any{"agent_id": "required"})
	}
	return nil
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate parses the requested status.
func (r UpdateStatusRequest) Validate() (domain.TicketStatus, error) {
	status, err := domain.ParseTicketStatus(r.Status)
	if err != nil {
		return "", apperrors.NewValidationError("invalid status payload", map[string]any{
			"status": "must be one of open, assigned, in_progress, resolved, closed",
		})
	}
	return status, nil
}

// TicketResponse is the ticket projection.
type TicketResponse struct {
	ID          int64                 `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedBy   int64                 `json:"created_by"`
	AssignedTo  *int64                `json:"assigned_to"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// NewTicketResponse maps the domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedBy:   t.CreatedBy,
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTicketResponses maps a list, never returning nil.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	result := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, NewTicketResponse(&tickets[i]))
	}
	return result
}

func checkTitle(problems map[string]any, title string) {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < 1 || n > maxTitleLength {
		problems["title"] = "must be between 1 and 200 characters"
	}
}

func checkDescription(problems map[string]any, description string) {
	if utf8.RuneCountInString(strings.TrimSpace(description)) < minDescriptionLength {
		problems["description"] = "must be at least 2 characters"
	}
}
