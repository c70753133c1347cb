package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// CommentsHandler exposes ticket comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// Add handles POST /api/tickets/:id/comments.
func (h *CommentsHandler) Add(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	comment, err := h.comments.AddComment(c.UserContext(), p, id, req.Comment)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Comment added successfully", dto.NewCommentResponse(comment))
}

// List handles GET /api/tickets/:id/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	comments, err := h.comments.ListComments(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Comments fetched successfully", fiber.Map{"comments": dto.NewCommentResponses(comments)})
}
