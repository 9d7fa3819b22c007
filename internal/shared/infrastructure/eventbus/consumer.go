package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventConsumer handles the routing keys it declares.
type EventConsumer interface {
	// EventTypes returns the routing keys this consumer handles,
	// e.g. ["meetings.meeting.cancelled"].
	EventTypes() []string

	Handle(ctx context.Context, event *ConsumedEvent) error
}

// ConsumedEvent is the envelope received from the bus. Payload holds the
// serialized domain event.
type ConsumedEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	Metadata      EventMetadata   `json:"metadata,omitempty"`
}

// EventMetadata carries tracing fields from the producing command.
type EventMetadata struct {
	UserID        string `json:"user_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
	CausationID   string `json:"causation_id,omitempty"`
}

// Consumer pulls events from a broker and dispatches them.
type Consumer interface {
	// Start blocks until ctx is cancelled or the consumer is closed.
	Start(ctx context.Context) error
	RegisterConsumer(consumer EventConsumer)
	Close() error
}
