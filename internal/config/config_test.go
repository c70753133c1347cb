package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_LOGIN_MAX_ATTEMPTS", "")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "helpdesk-service", cfg.App.Name)
	assert.Equal(t, 5, cfg.Auth.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LoginWindow())
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_LOGIN_MAX_ATTEMPTS", "3")
	t.Setenv("AUTH_LOGIN_WINDOW_SECONDS", "60")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 3, cfg.Auth.LoginMaxAttempts)
	assert.Equal(t, time.Minute, cfg.Auth.LoginWindow())
	assert.Equal(t, 12, cfg.Auth.BcryptCost, "unparsable values fall back to the default")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:  AppConfig{Env: "production"},
			Auth: AuthConfig{JWTSecret: "s3cret", BcryptCost: 10},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Auth.JWTSecret = "dev-secret"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Bootstrap.AdminEmail = "root@example.com"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Auth.BcryptCost = 2
	assert.Error(t, cfg.Validate())
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)
}
