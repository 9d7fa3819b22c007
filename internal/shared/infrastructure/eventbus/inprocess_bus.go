package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// InProcessEventBus delivers published envelopes synchronously to local
// consumers. It stands in for RabbitMQ in local mode.
type InProcessEventBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewInProcessEventBus creates a new in-process event bus.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// RegisterConsumer registers an event consumer.
func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish decodes the envelope and dispatches it. Consumer failures are
// logged, not returned, so the outbox marks the message delivered.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	event := &ConsumedEvent{}
	if err := json.Unmarshal(payload, event); err != nil {
		b.logger.Error("failed to unmarshal event envelope",
			"routing_key", routingKey,
			"error", err,
		)
		return nil
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}
	return b.dispatch(ctx, event)
}

// PublishConsumedEvent dispatches an already decoded event.
func (b *InProcessEventBus) PublishConsumedEvent(ctx context.Context, event *ConsumedEvent) error {
	return b.dispatch(ctx, event)
}

func (b *InProcessEventBus) dispatch(ctx context.Context, event *ConsumedEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.Error("event dispatch failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil
	}

	b.logger.Debug("event dispatched",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessEventBus) Close() error {
	return nil
}

// Start blocks until ctx is cancelled; delivery happens inside Publish.
func (b *InProcessEventBus) Start(ctx context.Context) error {
	b.logger.Info("in-process event bus started")
	<-ctx.Done()
	return ctx.Err()
}

// Registry returns the underlying consumer registry.
func (b *InProcessEventBus) Registry() *ConsumerRegistry {
	return b.registry
}
