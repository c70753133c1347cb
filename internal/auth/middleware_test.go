package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func newTestApp(t *testing.T) (*fiber.App, *TokenManager, *repotest.Store) {
	t.Helper()
	store := repotest.NewStore()
	store.SeedUser(domain.User{ID: 1, Email: "emp@example.com", Role: domain.RoleEmployee, IsActive: true})
	store.SeedUser(domain.User{ID: 2, Email: "adm@example.com", Role: domain.RoleAdmin, IsActive: true})
	store.SeedUser(domain.User{ID: 3, Email: "gone@example.com", Role: domain.RoleAgent, IsActive: false})

	tokens := NewTokenManager("secret", 5)
	mw := NewAuthMiddleware(tokens, store.Users())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperrors.ToDomainError(err).HTTPStatus).SendString(err.Error())
		},
	})
	app.Get("/me", mw.Handle, RequireAuthenticated(), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"user_id": p.UserID, "role": p.Role})
	})
	app.Get("/admin", mw.Handle, RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app, tokens, store
}

func call(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	app, tokens, _ := newTestApp(t)
	sign := func(id int64, role domain.Role) string {
		token, _, err := tokens.GenerateToken(id, role)
		require.NoError(t, err)
		return token
	}

	assert.Equal(t, http.StatusOK, call(t, app, "/me", sign(1, domain.RoleEmployee)))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/me", "garbage"))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/me", sign(99, domain.RoleEmployee)), "unknown user")
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/me", sign(1, "root")), "unknown role")
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/me", sign(1, domain.RoleAdmin)), "stale role")
	assert.Equal(t, http.StatusForbidden, call(t, app, "/me", sign(3, domain.RoleAgent)), "inactive")
}

func TestRequireRole(t *testing.T) {
	app, tokens, store := newTestApp(t)
	admin, _, err := tokens.GenerateToken(2, domain.RoleAdmin)
	require.NoError(t, err)
	employee, _, err := tokens.GenerateToken(1, domain.RoleEmployee)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, call(t, app, "/admin", admin))
	assert.Equal(t, http.StatusForbidden, call(t, app, "/admin", employee))

	// Demoting the admin invalidates the old token.
	user, err := store.Users().GetByID(context.Background(), 2)
	require.NoError(t, err)
	user.Role = domain.RoleAgent
	require.NoError(t, store.Users().Update(context.Background(), user))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/admin", admin))
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperrors.ToDomainError(err).HTTPStatus).SendString(err.Error())
		},
	})
	app.Get("/", RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/as-admin", WithPrincipal(domain.Principal{UserID: 9, Role: domain.RoleAdmin}), RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, call(t, app, "/", ""))
	assert.Equal(t, http.StatusOK, call(t, app, "/as-admin", ""))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	require.NoError(t, err)
	assert.True(t, PasswordMatches(hash, "correct horse"))
	assert.False(t, PasswordMatches(hash, "battery staple"))

	_, err = HashPassword(strings.Repeat("x", 73), 4)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
