package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// countingLimiter blocks after max recorded failures.
type countingLimiter struct {
	mu       sync.Mutex
	max      int
	failures map[string]int
}

func newCountingLimiter(max int) *countingLimiter {
	return &countingLimiter{max: max, failures: map[string]int{}}
}

func (l *countingLimiter) Allow(_ context.Context, email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures[email] < l.max
}

func (l *countingLimiter) RecordFailure(_ context.Context, email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[email]++
}

func (l *countingLimiter) Reset(_ context.Context, email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, email)
}

func newAuthService(store *repotest.Store, limiter *countingLimiter) *AuthService {
	deps := AuthDependencies{UserRepo: store.Users(), Clock: nil}
	if limiter != nil {
		deps.Limiter = limiter
	}
	return NewAuthService(testConfig(), deps)
}

func TestRegisterCreatesEmployee(t *testing.T) {
	store := repotest.NewStore()
	svc := newAuthService(store, nil)

	user, err := svc.Register(context.Background(), "Ada", "  Ada@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, user.Role)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	_, err = svc.Register(context.Background(), "Ada again", "ada@example.com", "other-pass")
	requireCode(t, err, apperrors.CodeConflict)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	svc := newAuthService(repotest.NewStore(), nil)

	_, err := svc.Register(context.Background(), "Bob", "bob@example.com", strings.Repeat("p", 73))
	requireCode(t, err, apperrors.CodeValidation)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	store := repotest.NewStore()
	svc := newAuthService(store, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "ADA@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	claims, err := svc.TokenManager().ParseToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "employee", claims.Role)
	assert.Equal(t, token.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestLoginFailures(t *testing.T) {
	store := repotest.NewStore()
	svc := newAuthService(store, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	requireCode(t, err, apperrors.CodeUnauthorized)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	requireCode(t, err, apperrors.CodeUnauthorized)

	user.IsActive = false
	require.NoError(t, store.Users().Update(ctx, user))
	_, err = svc.Login(ctx, "ada@example.com", "s3cret-pass")
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestLoginThrottling(t *testing.T) {
	store := repotest.NewStore()
	limiter := newCountingLimiter(2)
	svc := newAuthService(store, limiter)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = svc.Login(ctx, "ada@example.com", "wrong")
		requireCode(t, err, apperrors.CodeUnauthorized)
	}

	_, err = svc.Login(ctx, "ada@example.com", "s3cret-pass")
	requireCode(t, err, apperrors.CodeTooManyRequests)

	limiter.Reset(ctx, "ada@example.com")
	_, err = svc.Login(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Zero(t, limiter.failures["ada@example.com"])
}
