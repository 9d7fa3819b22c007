package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	meetingDomain "github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/felixgeelhaar/huddle/internal/notifications/domain"
	"github.com/felixgeelhaar/huddle/internal/notifications/infrastructure"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consumed(t *testing.T, routingKey string, payload any) *eventbus.ConsumedEvent {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &eventbus.ConsumedEvent{
		EventID:     uuid.New(),
		AggregateID: uuid.New(),
		RoutingKey:  routingKey,
		Payload:     raw,
	}
}

func titles(t *testing.T, inbox domain.Inbox, owner string) []string {
	t.Helper()
	list, err := inbox.List(context.Background(), sharedDomain.NewUserID(owner))
	require.NoError(t, err)
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.Title)
	}
	return out
}

func TestMeetingEventsConsumer_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("created invites every invitee", func(t *testing.T) {
		inbox := infrastructure.NewMemoryInbox(0)
		consumer := NewMeetingEventsConsumer(inbox, nil)

		err := consumer.Handle(ctx, consumed(t, meetingDomain.RoutingKeyMeetingCreated, map[string]any{
			"join_code":     "AbC123xy",
			"name":          "Planning",
			"invited_users": []string{"bob", "carol"},
			"date":          "2026-10-20",
		}))

		require.NoError(t, err)
		assert.Equal(t, []string{"You are invited to Planning on 10/20/2026"}, titles(t, inbox, "bob"))
		assert.Equal(t, []string{"You are invited to Planning on 10/20/2026"}, titles(t, inbox, "carol"))
		assert.Empty(t, titles(t, inbox, "alice"))
	})

	t.Run("cancelled warns invitees", func(t *testing.T) {
		inbox := infrastructure.NewMemoryInbox(0)
		consumer := NewMeetingEventsConsumer(inbox, nil)

		err := consumer.Handle(ctx, consumed(t, meetingDomain.RoutingKeyMeetingCancelled, map[string]any{
			"name":          "Planning",
			"invited_users": []string{"bob"},
		}))

		require.NoError(t, err)
		list, err := inbox.List(ctx, sharedDomain.NewUserID("bob"))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Planning was cancelled", list[0].Title)
		assert.Equal(t, domain.SeverityWarning, list[0].Severity)
	})

	t.Run("updated only reports reschedules", func(t *testing.T) {
		inbox := infrastructure.NewMemoryInbox(0)
		consumer := NewMeetingEventsConsumer(inbox, nil)

		require.NoError(t, consumer.Handle(ctx, consumed(t, meetingDomain.RoutingKeyMeetingUpdated, map[string]any{
			"name":           "Planning",
			"invited_users":  []string{"bob"},
			"date":           "2026-10-21",
			"changed_fields": []string{"name"},
		})))
		assert.Empty(t, titles(t, inbox, "bob"))

		require.NoError(t, consumer.Handle(ctx, consumed(t, meetingDomain.RoutingKeyMeetingUpdated, map[string]any{
			"name":           "Planning",
			"invited_users":  []string{"bob"},
			"date":           "2026-10-21",
			"changed_fields": []string{"date"},
		})))
		assert.Equal(t, []string{"Planning was moved to 10/21/2026"}, titles(t, inbox, "bob"))
	})

	t.Run("open meetings have nobody to notify", func(t *testing.T) {
		inbox := infrastructure.NewMemoryInbox(0)
		consumer := NewMeetingEventsConsumer(inbox, nil)

		err := consumer.Handle(ctx, consumed(t, meetingDomain.RoutingKeyMeetingCreated, map[string]any{
			"name": "Town hall",
			"date": "2026-10-20",
		}))

		require.NoError(t, err)
	})

	t.Run("drops malformed payloads", func(t *testing.T) {
		consumer := NewMeetingEventsConsumer(infrastructure.NewMemoryInbox(0), nil)

		err := consumer.Handle(ctx, &eventbus.ConsumedEvent{
			RoutingKey: meetingDomain.RoutingKeyMeetingCreated,
			Payload:    json.RawMessage(`{"invited_users": 7}`),
		})

		assert.NoError(t, err)
	})

	t.Run("returns inbox failures for redelivery", func(t *testing.T) {
		consumer := NewMeetingEventsConsumer(failingInbox{}, nil)

		err := consumer.Handle(ctx, consumed(t, meetingDomain.RoutingKeyMeetingCancelled, map[string]any{
			"name":          "Planning",
			"invited_users": []string{"bob"},
		}))

		assert.ErrorContains(t, err, "redis down")
	})
}

func TestMeetingEventsConsumer_WithRegistry(t *testing.T) {
	inbox := infrastructure.NewMemoryInbox(0)
	registry := eventbus.NewConsumerRegistry(nil)
	registry.Register(NewMeetingEventsConsumer(inbox, nil))

	assert.Equal(t, []string{
		meetingDomain.RoutingKeyMeetingCancelled,
		meetingDomain.RoutingKeyMeetingCreated,
		meetingDomain.RoutingKeyMeetingUpdated,
	}, registry.EventTypes())
}

type failingInbox struct{}

func (failingInbox) Push(context.Context, sharedDomain.UserID, string, domain.Severity) (domain.Notification, error) {
	return domain.Notification{}, errors.New("redis down")
}

func (failingInbox) Dismiss(context.Context, sharedDomain.UserID, uuid.UUID) error { return nil }

func (failingInbox) List(context.Context, sharedDomain.UserID) ([]domain.Notification, error) {
	return nil, nil
}
