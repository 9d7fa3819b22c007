package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config selects and configures the backing store.
type Config struct {
	// Driver is detected from URL when empty or "auto".
	Driver Driver

	// URL is the PostgreSQL connection string.
	URL string

	// SQLitePath is the SQLite file, or ":memory:". Defaults to ~/.huddle/huddle.db.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool size.
	MaxConns int
}

// NewConnection opens a connection for the configured driver. Driver
// packages register themselves from init, so callers must blank-import the
// ones they need.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}

	var factory connectionFactory
	switch driver {
	case DriverPostgres:
		factory = newPostgresConnection
	case DriverSQLite:
		factory = newSQLiteConnection
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if factory == nil {
		return nil, fmt.Errorf("database driver %s is not registered", driver)
	}
	return factory(ctx, cfg)
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".huddle", "huddle.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

type connectionFactory func(ctx context.Context, cfg Config) (Connection, error)

var (
	newPostgresConnection connectionFactory
	newSQLiteConnection   connectionFactory
)

// RegisterPostgresDriver registers the PostgreSQL connection factory.
func RegisterPostgresDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	newPostgresConnection = fn
}

// RegisterSQLiteDriver registers the SQLite connection factory.
func RegisterSQLiteDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	newSQLiteConnection = fn
}
