package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConsumer struct {
	mu         sync.Mutex
	eventTypes []string
	events     []*eventbus.ConsumedEvent
	err        error
}

func (c *mockConsumer) EventTypes() []string { return c.eventTypes }

func (c *mockConsumer) Handle(_ context.Context, event *eventbus.ConsumedEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return c.err
}

func newEvent(routingKey string) *eventbus.ConsumedEvent {
	return &eventbus.ConsumedEvent{
		EventID:       uuid.New(),
		AggregateID:   uuid.New(),
		AggregateType: "Meeting",
		RoutingKey:    routingKey,
		OccurredAt:    time.Now(),
		Payload:       json.RawMessage(`{"join_code":"AbC123xy"}`),
		Metadata:      eventbus.EventMetadata{UserID: "U1"},
	}
}

func TestConsumerRegistry_Dispatch(t *testing.T) {
	t.Run("routes by key", func(t *testing.T) {
		registry := eventbus.NewConsumerRegistry(nil)
		cancelled := &mockConsumer{eventTypes: []string{"meetings.meeting.cancelled"}}
		created := &mockConsumer{eventTypes: []string{"meetings.meeting.created"}}
		registry.Register(cancelled)
		registry.Register(created)

		require.NoError(t, registry.Dispatch(context.Background(), newEvent("meetings.meeting.cancelled")))

		assert.Len(t, cancelled.events, 1)
		assert.Empty(t, created.events)
		assert.Equal(t, 2, registry.ConsumerCount())
		assert.Equal(t, []string{"meetings.meeting.cancelled", "meetings.meeting.created"}, registry.EventTypes())
	})

	t.Run("no consumers is not an error", func(t *testing.T) {
		registry := eventbus.NewConsumerRegistry(nil)
		assert.NoError(t, registry.Dispatch(context.Background(), newEvent("meetings.meeting.updated")))
	})

	t.Run("failing consumer does not stop others", func(t *testing.T) {
		registry := eventbus.NewConsumerRegistry(nil)
		failing := &mockConsumer{eventTypes: []string{"meetings.meeting.created"}, err: errors.New("boom")}
		healthy := &mockConsumer{eventTypes: []string{"meetings.meeting.created"}}
		registry.Register(failing)
		registry.Register(healthy)

		err := registry.Dispatch(context.Background(), newEvent("meetings.meeting.created"))

		assert.EqualError(t, err, "boom")
		assert.Len(t, healthy.events, 1)
	})
}

func TestInProcessEventBus_Publish(t *testing.T) {
	t.Run("decodes envelope", func(t *testing.T) {
		bus := eventbus.NewInProcessEventBus(nil)
		consumer := &mockConsumer{eventTypes: []string{"meetings.meeting.created"}}
		bus.RegisterConsumer(consumer)

		event := newEvent("meetings.meeting.created")
		payload, err := json.Marshal(event)
		require.NoError(t, err)

		require.NoError(t, bus.Publish(context.Background(), "meetings.meeting.created", payload))

		require.Len(t, consumer.events, 1)
		assert.Equal(t, event.EventID, consumer.events[0].EventID)
		assert.Equal(t, "U1", consumer.events[0].Metadata.UserID)
	})

	t.Run("falls back to publish routing key", func(t *testing.T) {
		bus := eventbus.NewInProcessEventBus(nil)
		consumer := &mockConsumer{eventTypes: []string{"meetings.meeting.cancelled"}}
		bus.RegisterConsumer(consumer)

		require.NoError(t, bus.Publish(context.Background(), "meetings.meeting.cancelled", []byte(`{"payload":{}}`)))

		assert.Len(t, consumer.events, 1)
	})

	t.Run("swallows bad payloads and consumer errors", func(t *testing.T) {
		bus := eventbus.NewInProcessEventBus(nil)
		bus.RegisterConsumer(&mockConsumer{eventTypes: []string{"meetings.meeting.created"}, err: errors.New("boom")})

		assert.NoError(t, bus.Publish(context.Background(), "meetings.meeting.created", []byte("not json")))
		assert.NoError(t, bus.PublishConsumedEvent(context.Background(), newEvent("meetings.meeting.created")))
	})
}
