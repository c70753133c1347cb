package persistence

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])

	content, err := fs.ReadFile(migrationFiles, migrationsDir+"/"+names[0])
	require.NoError(t, err)
	for _, table := range []string{"users", "tickets", "ticket_comments"} {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestWithoutDatabase(t *testing.T) {
	ctx := context.Background()
	pg, err := NewPostgres(ctx, config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Error(t, pg.Ping(ctx))
	assert.NoError(t, RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()))
	pg.Close()

	var missing *Redis
	err = missing.Ping(ctx)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not configured"))
}
