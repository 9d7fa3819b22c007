package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"HUDDLE_ENV", "HUDDLE_LOG_LEVEL", "HUDDLE_LOG_FORMAT",
	"HUDDLE_USER", "HUDDLE_DISPLAY_NAME",
	"DATABASE_URL", "HUDDLE_DATABASE_DRIVER", "HUDDLE_SQLITE_PATH",
	"REDIS_URL", "HUDDLE_CACHE_TTL", "HUDDLE_NOTIFICATION_TTL",
	"RABBITMQ_URL", "HUDDLE_RABBITMQ_QUEUE",
	"HUDDLE_OUTBOX_POLL_INTERVAL", "HUDDLE_OUTBOX_BATCH_SIZE", "HUDDLE_OUTBOX_MAX_RETRIES",
	"HUDDLE_OUTBOX_RETENTION_DAYS", "HUDDLE_OUTBOX_CLEANUP_INTERVAL", "HUDDLE_OUTBOX_PROCESSOR_ENABLED",
	"HUDDLE_WORKER_ADDR", "HUDDLE_BREAKER_FAILURES", "HUDDLE_BREAKER_TIMEOUT",
	"HUDDLE_TRANSPORT_SECRET", "HUDDLE_TRANSPORT_ISSUER", "HUDDLE_TRANSPORT_TOKEN_TTL",
	"HUDDLE_MCP_ADDR", "HUDDLE_MCP_TOKEN",
}

// clearEnv blanks every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
		require.NoError(t, os.Unsetenv(v))
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.User)

	assert.True(t, cfg.LocalMode)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.True(t, strings.HasSuffix(cfg.SQLitePath, filepath.Join(".huddle", "huddle.db")))

	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 4*time.Second, cfg.InboxLifetime)
	assert.Equal(t, DefaultInboxLifetime, cfg.InboxLifetime)

	assert.Equal(t, "huddle.notifications", cfg.RabbitMQQueue)
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.Equal(t, 14*24*time.Hour, cfg.OutboxRetention())
	assert.True(t, cfg.OutboxProcessorEnabled)

	assert.Equal(t, 5, cfg.BreakerFailureThreshold)
	assert.Equal(t, 15*time.Second, cfg.BreakerTimeout)
	assert.Equal(t, "huddle", cfg.TransportIssuer)
	assert.Equal(t, 2*time.Hour, cfg.TransportTokenTTL)
	assert.Equal(t, "0.0.0.0:8082", cfg.MCPAddr)
}

func TestLoad_ServerMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://huddle:secret@db:5432/huddle")
	t.Setenv("HUDDLE_USER", "  alice  ")
	t.Setenv("HUDDLE_ENV", "production")
	t.Setenv("HUDDLE_OUTBOX_BATCH_SIZE", "25")
	t.Setenv("HUDDLE_CACHE_TTL", "1m")
	t.Setenv("HUDDLE_OUTBOX_PROCESSOR_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.LocalMode)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "alice", cfg.User)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 25, cfg.OutboxBatchSize)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.OutboxProcessorEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HUDDLE_OUTBOX_BATCH_SIZE", "lots")
	t.Setenv("HUDDLE_BREAKER_TIMEOUT", "soon")
	t.Setenv("HUDDLE_OUTBOX_PROCESSOR_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 15*time.Second, cfg.BreakerTimeout)
	assert.True(t, cfg.OutboxProcessorEnabled)
}

func TestLoad_ExplicitSQLitePath(t *testing.T) {
	clearEnv(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("HUDDLE_SQLITE_PATH", "~/meetings/local.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "meetings", "local.db"), cfg.SQLitePath)
}
