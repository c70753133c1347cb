package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/clock"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserService manages the user directory on behalf of admins.
type UserService struct {
	users      repository.UserRepository
	clock      clock.Clock
	logger     *zap.Logger
	bcryptCost int
}

// UserDependencies encapsulates collaborators for user service.
type UserDependencies struct {
	UserRepo repository.UserRepository
	Clock    clock.Clock
	Logger   *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	svc := &UserService{
		users:      deps.UserRepo,
		clock:      deps.Clock,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
	if svc.clock == nil {
		svc.clock = clock.Real()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

func requireAdmin(p domain.Principal) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	if p.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context, actor domain.Principal) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, actor domain.Principal, userID int64) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.loadUser(ctx, userID)
}

// CreateUser creates a user with an explicit role.
func (s *UserService) CreateUser(ctx context.Context, actor domain.Principal, name, email, password string, role domain.Role) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := createUser(ctx, s.users, s.clock, s.bcryptCost, name, email, password, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created",
		zap.Int64("user_id", user.ID),
		zap.String("role", role.String()),
		zap.Int64("created_by", actor.UserID),
	)
	return user, nil
}

// UpdateRole changes the role of a user.
func (s *UserService) UpdateRole(ctx context.Context, actor domain.Principal, userID int64, role domain.Role) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user role changed", zap.Int64("user_id", user.ID), zap.String("role", role.String()))
	return user, nil
}

// ResetPassword sets a new password for a user.
func (s *UserService) ResetPassword(ctx context.Context, actor domain.Principal, userID int64, password string) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin unless a user with that email exists.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, normalizeEmail(email)); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if name == "" {
		name = "Administrator"
	}
	user, err := createUser(ctx, s.users, s.clock, s.bcryptCost, name, email, password, domain.RoleAdmin)
	if err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.Int64("user_id", user.ID))
	return nil
}

func (s *UserService) loadUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
