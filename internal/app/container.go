package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	meetingCommands "github.com/felixgeelhaar/huddle/internal/meetings/application/commands"
	meetingQueries "github.com/felixgeelhaar/huddle/internal/meetings/application/queries"
	meetingServices "github.com/felixgeelhaar/huddle/internal/meetings/application/services"
	meetingsDomain "github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/felixgeelhaar/huddle/internal/meetings/infrastructure/resilience"
	"github.com/felixgeelhaar/huddle/internal/meetings/infrastructure/transport"
	notificationsApp "github.com/felixgeelhaar/huddle/internal/notifications/application"
	"github.com/felixgeelhaar/huddle/internal/notifications/application/subscribers"
	notificationsDomain "github.com/felixgeelhaar/huddle/internal/notifications/domain"
	notificationsInfra "github.com/felixgeelhaar/huddle/internal/notifications/infrastructure"
	sharedApplication "github.com/felixgeelhaar/huddle/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/huddle/pkg/config"
	"github.com/felixgeelhaar/huddle/pkg/observability"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// ErrMissingTransportSecret is returned outside development when no room
// token secret is configured.
var ErrMissingTransportSecret = errors.New("HUDDLE_TRANSPORT_SECRET is required in production")

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Clock   sharedDomain.Clock
	Metrics *observability.Metrics

	// Infrastructure
	DB          database.Connection
	RedisClient *redis.Client

	// Repositories
	MeetingRepo    meetingsDomain.Repository
	MeetingBreaker *resilience.BreakerMeetingRepository
	OutboxRepo     outbox.Repository
	UnitOfWork     sharedApplication.UnitOfWork
	Inbox          notificationsDomain.Inbox

	// Events
	EventPublisher    eventbus.Publisher
	InProcessEventBus *eventbus.InProcessEventBus
	OutboxProcessor   *outbox.Processor

	// Meeting handlers
	CreateMeetingHandler       *meetingCommands.CreateMeetingHandler
	UpdateMeetingHandler       *meetingCommands.UpdateMeetingHandler
	CancelMeetingHandler       *meetingCommands.CancelMeetingHandler
	GetMeetingHandler          *meetingQueries.GetMeetingHandler
	ListMyMeetingsHandler      *meetingQueries.ListMyMeetingsHandler
	ListVisibleMeetingsHandler *meetingQueries.ListVisibleMeetingsHandler
	JoinService                *meetingServices.JoinService
	RoomTokens                 *transport.JWTIssuer

	// Notifications
	NotificationService   *notificationsApp.Service
	MeetingEventsConsumer *subscribers.MeetingEventsConsumer
}

// Option adjusts the container before wiring.
type Option func(*Container)

// WithClock pins the clock used by handlers.
func WithClock(clock sharedDomain.Clock) Option {
	return func(c *Container) { c.Clock = clock }
}

// NewContainer opens the store, runs migrations and wires all handlers.
// Redis and RabbitMQ are optional: without Redis the cache is skipped and
// inboxes live in memory; without RabbitMQ the outbox is delivered to an
// in-process bus.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Clock:   sharedDomain.SystemClock,
		Metrics: observability.NewMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = conn
	logger.Debug("connected to database", "driver", conn.Driver())

	if err := migrations.Run(ctx, conn); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := c.connectRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.wireRepositories(); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.wireEvents(); err != nil {
		c.Close()
		return nil, err
	}

	issuer, err := c.roomTokenIssuer()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.RoomTokens = issuer

	c.CreateMeetingHandler = meetingCommands.NewCreateMeetingHandler(c.MeetingRepo, c.OutboxRepo, c.UnitOfWork, nil, c.Clock)
	c.UpdateMeetingHandler = meetingCommands.NewUpdateMeetingHandler(c.MeetingRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.CancelMeetingHandler = meetingCommands.NewCancelMeetingHandler(c.MeetingRepo, c.OutboxRepo, c.UnitOfWork)
	c.GetMeetingHandler = meetingQueries.NewGetMeetingHandler(c.MeetingRepo, c.Clock)
	c.ListMyMeetingsHandler = meetingQueries.NewListMyMeetingsHandler(c.MeetingRepo, c.Clock)
	c.ListVisibleMeetingsHandler = meetingQueries.NewListVisibleMeetingsHandler(c.MeetingRepo, c.Clock)
	c.JoinService = meetingServices.NewJoinService(c.MeetingRepo, c.Inbox, c.RoomTokens, c.Clock, logger,
		meetingServices.WithDecisionRecorder(c.Metrics),
	)
	c.NotificationService = notificationsApp.NewService(c.Inbox)

	return c, nil
}

func (c *Container) connectRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if c.Config.IsProduction() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, cache and shared inbox disabled", "error", err)
		return nil
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if c.Config.IsProduction() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, cache and shared inbox disabled", "error", err)
		return nil
	}
	c.RedisClient = client
	c.Logger.Debug("connected to Redis")
	return nil
}

func (c *Container) wireRepositories() error {
	factory := NewRepositoryFactory(c.DB, c.Logger)

	breakerConfig := resilience.DefaultBreakerConfig()
	if c.Config.BreakerFailureThreshold > 0 {
		breakerConfig.FailureThreshold = convert.IntToUint32Clamped(c.Config.BreakerFailureThreshold)
	}
	if c.Config.BreakerTimeout > 0 {
		breakerConfig.Timeout = c.Config.BreakerTimeout
	}

	repo, breaker, err := factory.ResilientMeetingRepository(c.RedisClient, c.Config.CacheTTL, breakerConfig)
	if err != nil {
		return fmt.Errorf("failed to create meeting repository: %w", err)
	}
	c.MeetingRepo = repo
	c.MeetingBreaker = breaker

	outboxRepo, err := factory.OutboxRepository()
	if err != nil {
		return fmt.Errorf("failed to create outbox repository: %w", err)
	}
	c.OutboxRepo = outboxRepo
	c.UnitOfWork = database.NewUnitOfWork(c.DB)

	var inbox notificationsDomain.Inbox
	if c.RedisClient != nil {
		inbox = notificationsInfra.NewRedisInbox(c.RedisClient, c.Config.InboxLifetime)
	} else {
		inbox = notificationsInfra.NewMemoryInbox(c.Config.InboxLifetime)
	}
	c.Inbox = &meteredInbox{Inbox: inbox, metrics: c.Metrics}
	c.MeetingEventsConsumer = subscribers.NewMeetingEventsConsumer(c.Inbox, c.Logger)
	return nil
}

func (c *Container) wireEvents() error {
	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		switch {
		case err == nil:
			c.EventPublisher = publisher
		case c.Config.IsProduction():
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		default:
			c.Logger.Warn("RabbitMQ not available, delivering events in process", "error", err)
		}
	}
	if c.EventPublisher == nil {
		c.InProcessEventBus = eventbus.NewInProcessEventBus(c.Logger)
		c.InProcessEventBus.RegisterConsumer(ObservedConsumer(c.MeetingEventsConsumer, c.Metrics))
		c.EventPublisher = c.InProcessEventBus
	}

	processorConfig := outbox.DefaultProcessorConfig()
	if c.Config.OutboxPollInterval > 0 {
		processorConfig.PollInterval = c.Config.OutboxPollInterval
	}
	if c.Config.OutboxBatchSize > 0 {
		processorConfig.BatchSize = c.Config.OutboxBatchSize
	}
	if c.Config.OutboxMaxRetries > 0 {
		processorConfig.MaxRetries = c.Config.OutboxMaxRetries
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig, c.Logger)
	c.Metrics.ObserveOutbox(func() observability.OutboxStats {
		stats := c.OutboxProcessor.GetStats()
		return observability.OutboxStats{
			Published:  stats.PublishedCount,
			Failed:     stats.FailedCount,
			Dead:       stats.DeadCount,
			LagSeconds: stats.LagSeconds,
		}
	})
	return nil
}

// roomTokenIssuer signs room grants. Development setups without a
// configured secret get a random per-process key.
func (c *Container) roomTokenIssuer() (*transport.JWTIssuer, error) {
	secret := []byte(c.Config.TransportSecret)
	if len(secret) == 0 {
		if c.Config.IsProduction() {
			return nil, ErrMissingTransportSecret
		}
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate transport secret: %w", err)
		}
		c.Logger.Debug("using ephemeral transport secret")
	}
	return transport.NewJWTIssuer(transport.Config{
		Issuer: c.Config.TransportIssuer,
		Secret: secret,
		TTL:    c.Config.TransportTokenTTL,
		Now:    c.Clock.Now,
	})
}

// DeliverPending publishes whatever is waiting in the outbox. The CLI calls
// it after each command when events are delivered in process, so invitees
// sharing an inbox store see their notifications without a worker.
func (c *Container) DeliverPending(ctx context.Context) error {
	if c.InProcessEventBus == nil {
		return nil
	}
	return c.OutboxProcessor.ProcessOnce(ctx)
}

// HealthRegistry builds the checks the worker reports on /health.
func (c *Container) HealthRegistry() *observability.HealthRegistry {
	registry := observability.NewHealthRegistry(0)
	registry.Register("database", observability.PingChecker("database", true, c.DB.Ping))
	registry.Register("meeting_store_breaker", func(context.Context) observability.HealthCheckResult {
		state := c.MeetingBreaker.State()
		switch state {
		case gobreaker.StateOpen:
			return observability.HealthCheckResult{Status: observability.HealthStatusUnhealthy, Message: "breaker " + state.String()}
		case gobreaker.StateHalfOpen:
			return observability.HealthCheckResult{Status: observability.HealthStatusDegraded, Message: "breaker " + state.String()}
		default:
			return observability.HealthCheckResult{Status: observability.HealthStatusHealthy}
		}
	})
	if c.RedisClient != nil {
		registry.Register("redis", observability.PingChecker("redis", false, func(ctx context.Context) error {
			return c.RedisClient.Ping(ctx).Err()
		}))
	}
	return registry
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis client", "error", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("error closing database", "error", err)
		}
	}
}

// meteredInbox counts pushed notifications.
type meteredInbox struct {
	notificationsDomain.Inbox
	metrics *observability.Metrics
}

func (i *meteredInbox) Push(ctx context.Context, owner sharedDomain.UserID, title string, severity notificationsDomain.Severity) (notificationsDomain.Notification, error) {
	n, err := i.Inbox.Push(ctx, owner, title, severity)
	if err == nil {
		i.metrics.RecordNotification(string(severity))
	}
	return n, err
}
