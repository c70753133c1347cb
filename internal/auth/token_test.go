package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 10)
	token, exp, err := tm.GenerateToken(42, domain.RoleAgent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "agent", claims.Role)
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", 10)

	other := NewTokenManager("other-secret", 10)
	foreign, _, err := other.GenerateToken(1, domain.RoleAdmin)
	require.NoError(t, err)
	_, err = tm.ParseToken(foreign)
	assert.Error(t, err, "wrong signature")

	expired := NewTokenManager("secret", 1)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := expired.GenerateToken(1, domain.RoleAdmin)
	require.NoError(t, err)
	_, err = tm.ParseToken(stale)
	assert.Error(t, err, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1, Role: "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tm.ParseToken(unsigned)
	assert.Error(t, err, "alg none")

	_, err = tm.ParseToken("not-a-token")
	assert.Error(t, err)
}
