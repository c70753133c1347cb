package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// AdminUsersHandler exposes user directory management to admins.
type AdminUsersHandler struct {
	users *service.UserService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(users *service.UserService) *AdminUsersHandler {
	return &AdminUsersHandler{users: users}
}

// List handles GET /api/users.
func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	users, err := h.users.ListUsers(c.UserContext(), p)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Users fetched successfully", fiber.Map{"users": dto.NewUserResponses(users)})
}

// Get handles GET /api/users/:id.
func (h *AdminUsersHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User fetched successfully", dto.NewUserResponse(user))
}

// Create handles POST /api/users.
func (h *AdminUsersHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	role, err := req.Validate()
	if err != nil {
		return err
	}
	user, err := h.users.CreateUser(c.UserContext(), p, req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "User created successfully", dto.NewUserResponse(user))
}

// UpdateRole handles PATCH /api/users/:id/role.
func (h *AdminUsersHandler) UpdateRole(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	role, err := req.Validate()
	if err != nil {
		return err
	}
	user, err := h.users.UpdateRole(c.UserContext(), p, id, role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User role updated successfully", dto.NewUserResponse(user))
}

// ResetPassword handles PATCH /api/users/:id/password.
func (h *AdminUsersHandler) ResetPassword(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	user, err := h.users.ResetPassword(c.UserContext(), p, id, req.Password)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password reset successfully", dto.NewUserResponse(user))
}
