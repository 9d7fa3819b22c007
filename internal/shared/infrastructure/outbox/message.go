package outbox

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
)

// Message is a domain event waiting in the outbox table.
type Message struct {
	ID               int64
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      uuid.UUID
	EventType        string
	RoutingKey       string
	Payload          json.RawMessage
	Metadata         json.RawMessage
	CreatedAt        time.Time
	PublishedAt      *time.Time
	NextRetryAt      *time.Time
	RetryCount       int
	LastError        *string
	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage serializes a domain event for the outbox.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(event.Metadata())
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		EventType:     event.RoutingKey(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// NewMessages serializes every event, stopping at the first failure.
func NewMessages(events []domain.DomainEvent) ([]*Message, error) {
	msgs := make([]*Message, 0, len(events))
	for _, event := range events {
		msg, err := NewMessage(event)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Envelope is the wire form published to the broker: event identity and
// routing around the original payload.
type Envelope struct {
	EventID       uuid.UUID            `json:"event_id"`
	AggregateID   uuid.UUID            `json:"aggregate_id"`
	AggregateType string               `json:"aggregate_type"`
	RoutingKey    string               `json:"routing_key"`
	OccurredAt    time.Time            `json:"occurred_at"`
	Payload       json.RawMessage      `json:"payload"`
	Metadata      domain.EventMetadata `json:"metadata"`
}

// Envelope wraps the message for publishing.
func (m *Message) Envelope() ([]byte, error) {
	env := Envelope{
		EventID:       m.EventID,
		AggregateID:   m.AggregateID,
		AggregateType: m.AggregateType,
		RoutingKey:    m.RoutingKey,
		OccurredAt:    m.CreatedAt,
		Payload:       m.Payload,
	}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &env.Metadata); err != nil {
			return nil, err
		}
	}
	return json.Marshal(env)
}

// IsPublished returns true if the message has been published.
func (m *Message) IsPublished() bool {
	return m.PublishedAt != nil
}

// CanRetry returns true if the message can be retried.
func (m *Message) CanRetry(maxRetries int) bool {
	return m.RetryCount < maxRetries
}
