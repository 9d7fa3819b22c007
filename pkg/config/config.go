package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultInboxLifetime is how long a notification stays visible before it
// is dismissed automatically.
const DefaultInboxLifetime = 4 * time.Second

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Identity of the CLI caller. Empty means anonymous.
	User            string
	UserDisplayName string

	// Database
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
	LocalMode      bool

	// Redis
	RedisURL      string
	CacheTTL      time.Duration
	InboxLifetime time.Duration

	// RabbitMQ
	RabbitMQURL   string
	RabbitMQQueue string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string

	// Store circuit breaker
	BreakerFailureThreshold int
	BreakerTimeout          time.Duration

	// Video transport
	TransportSecret   string
	TransportIssuer   string
	TransportTokenTTL time.Duration

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	cfg := &Config{
		AppEnv:    getEnv("HUDDLE_ENV", "development"),
		LogLevel:  getEnv("HUDDLE_LOG_LEVEL", "warn"),
		LogFormat: getEnv("HUDDLE_LOG_FORMAT", "text"),

		User:            strings.TrimSpace(getEnv("HUDDLE_USER", "")),
		UserDisplayName: getEnv("HUDDLE_DISPLAY_NAME", ""),

		DatabaseURL:    databaseURL,
		DatabaseDriver: getEnv("HUDDLE_DATABASE_DRIVER", ""),
		SQLitePath:     expandHome(getEnv("HUDDLE_SQLITE_PATH", defaultSQLitePath())),

		RedisURL:      getEnv("REDIS_URL", ""),
		CacheTTL:      getDurationEnv("HUDDLE_CACHE_TTL", 30*time.Second),
		InboxLifetime: getDurationEnv("HUDDLE_NOTIFICATION_TTL", DefaultInboxLifetime),

		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue: getEnv("HUDDLE_RABBITMQ_QUEUE", "huddle.notifications"),

		OutboxPollInterval:     getDurationEnv("HUDDLE_OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:        getIntEnv("HUDDLE_OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("HUDDLE_OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:    getIntEnv("HUDDLE_OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("HUDDLE_OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("HUDDLE_OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("HUDDLE_WORKER_ADDR", "0.0.0.0:8081"),

		BreakerFailureThreshold: getIntEnv("HUDDLE_BREAKER_FAILURES", 5),
		BreakerTimeout:          getDurationEnv("HUDDLE_BREAKER_TIMEOUT", 15*time.Second),

		TransportSecret:   getEnv("HUDDLE_TRANSPORT_SECRET", ""),
		TransportIssuer:   getEnv("HUDDLE_TRANSPORT_ISSUER", "huddle"),
		TransportTokenTTL: getDurationEnv("HUDDLE_TRANSPORT_TOKEN_TTL", 2*time.Hour),

		MCPAddr:      getEnv("HUDDLE_MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("HUDDLE_MCP_TOKEN", ""),
	}

	// Without a server database the CLI runs against a local SQLite file.
	if cfg.DatabaseDriver == "" {
		if databaseURL == "" {
			cfg.DatabaseDriver = "sqlite"
		} else {
			cfg.DatabaseDriver = "postgres"
		}
	}
	cfg.LocalMode = cfg.DatabaseDriver == "sqlite"

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// OutboxRetention is the age after which published outbox rows are purged.
func (c *Config) OutboxRetention() time.Duration {
	return time.Duration(c.OutboxRetentionDays) * 24 * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".huddle", "huddle.db")
	}
	return filepath.Join(home, ".huddle", "huddle.db")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
