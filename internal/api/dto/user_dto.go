package dto

import (
	"net/mail"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const minPasswordLength = 6

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks registration fields.
func (r UserRegisterRequest) Validate() error {
	problems := map[string]any{}
	if strings.TrimSpace(r.Name) == "" {
		problems["name"] = "required"
	}
	checkEmail(problems, r.Email)
	checkPassword(problems, r.Password)
	if len(problems) > 0 {
		return apperrors.NewValidationError("invalid registration payload", problems)
	}
	return nil
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate requires both credentials.
func (r UserLoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}
	return nil
}

// CreateUserRequest is the admin payload for a new user.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate checks fields and parses the role (employee when omitted).
func (r CreateUserRequest) Validate() (domain.Role, error) {
	problems := map[string]any{}
	if strings.TrimSpace(r.Name) == "" {
		problems["name"] = "required"
	}
	checkEmail(problems, r.Email)
	checkPassword(problems, r.Password)
	role := domain.RoleEmployee
	if r.Role != "" {
		parsed, err := domain.ParseRole(r.Role)
		if err != nil {
			problems["role"] = "must be one of employee, agent, admin"
		}
		role = parsed
	}
	if len(problems) > 0 {
		return "", apperrors.NewValidationError("invalid user payload", problems)
	}
	return role, nil
}

// UpdateRoleRequest payload.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// Validate parses the role.
func (r UpdateRoleRequest) Validate() (domain.Role, error) {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return "", apperrors.NewValidationError("invalid role payload", map[string]any{
			"role": "must be one of employee, agent, admin",
		})
	}
	return role, nil
}

// ResetPasswordRequest payload.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// Validate checks the new password.
func (r ResetPasswordRequest) Validate() error {
	problems := map[string]any{}
	checkPassword(problems, r.Password)
	if len(problems) > 0 {
		return apperrors.NewValidationError("invalid password payload", problems)
	}
	return nil
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserResponse is the user projection. The password hash never leaves the service.
type UserResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserResponse maps the domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserResponses maps a list.
func NewUserResponses(users []domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, NewUserResponse(&users[i]))
	}
	return result
}

// PrincipalResponse describes the caller.
type PrincipalResponse struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
}

func checkEmail(problems map[string]any, email string) {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		problems["email"] = "must be a valid email address"
	}
}

func checkPassword(problems map[string]any, password string) {
	if len(password) < minPasswordLength {
		problems["password"] = "must be at least 6 characters"
	}
}
