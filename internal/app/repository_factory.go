package app

import (
	"fmt"
	"log/slog"
	"time"

	meetingsDomain "github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/felixgeelhaar/huddle/internal/meetings/infrastructure/cache"
	meetingPersistence "github.com/felixgeelhaar/huddle/internal/meetings/infrastructure/persistence"
	"github.com/felixgeelhaar/huddle/internal/meetings/infrastructure/resilience"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/outbox"
	"github.com/redis/go-redis/v9"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
	logger *slog.Logger
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection, logger *slog.Logger) *RepositoryFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepositoryFactory{conn: conn, driver: conn.Driver(), logger: logger}
}

// MeetingRepository creates the store-backed meeting repository.
func (f *RepositoryFactory) MeetingRepository() (meetingsDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return meetingPersistence.NewPostgresMeetingRepository(f.conn), nil
	case database.DriverSQLite:
		return meetingPersistence.NewSQLiteMeetingRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// ResilientMeetingRepository wraps the store repository in a circuit
// breaker and, when a Redis client is given, puts the join-code cache in
// front of it so cached meetings stay reachable while the breaker is open.
// The breaker is returned separately for health reporting.
func (f *RepositoryFactory) ResilientMeetingRepository(
	client *redis.Client,
	cacheTTL time.Duration,
	config resilience.BreakerConfig,
) (meetingsDomain.Repository, *resilience.BreakerMeetingRepository, error) {
	store, err := f.MeetingRepository()
	if err != nil {
		return nil, nil, err
	}
	breaker := resilience.NewBreakerMeetingRepository(store, config, f.logger)
	if client == nil {
		return breaker, breaker, nil
	}
	return cache.NewCachedMeetingRepository(breaker, client, cacheTTL, f.logger), breaker, nil
}

// OutboxRepository creates the outbox store for the configured driver.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	if !f.driver.IsValid() {
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
	return outbox.NewStore(f.conn), nil
}
