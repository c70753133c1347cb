package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/clock"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const msgBadCredentials = "invalid email or password"

// AccessToken is the result of a successful login.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	limiter    auth.LoginLimiter
	clock      clock.Clock
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborators for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Limiter  auth.LoginLimiter
	Clock    clock.Clock
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	svc := &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		limiter:    deps.Limiter,
		clock:      deps.Clock,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
	if svc.limiter == nil {
		svc.limiter = auth.NewRedisLoginLimiter(nil, 0, 0, nil)
	}
	if svc.clock == nil {
		svc.clock = clock.Real()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Register creates a new employee account.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return createUser(ctx, s.users, s.clock, s.bcryptCost, name, email, password, domain.RoleEmployee)
}

// Login authenticates by email and password and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AccessToken, error) {
	email = normalizeEmail(email)
	if !s.limiter.Allow(ctx, email) {
		return nil, apperrors.NewTooManyRequests("too many failed login attempts, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			auth.BurnComparison(password)
			s.limiter.RecordFailure(ctx, email)
			return nil, apperrors.NewUnauthorized(msgBadCredentials)
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.PasswordMatches(user.PasswordHash, password) {
		s.limiter.RecordFailure(ctx, email)
		return nil, apperrors.NewUnauthorized(msgBadCredentials)
	}
	if !user.IsActive {
		return nil, apperrors.NewForbidden("user is inactive")
	}
	s.limiter.Reset(ctx, email)

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", user.Role.String()))
	return &AccessToken{Token: token, ExpiresAt: exp, User: user}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func createUser(ctx context.Context, users repository.UserRepository, clk clock.Clock, cost int, name, email, password string, role domain.Role) (*domain.User, error) {
	email = normalizeEmail(email)
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, cost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    clk.Now(),
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict(err.Error(), map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
