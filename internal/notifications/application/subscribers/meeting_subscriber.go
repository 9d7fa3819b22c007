package subscribers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	meetingDomain "github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/felixgeelhaar/huddle/internal/notifications/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/eventbus"
)

// MeetingEventsConsumer tells invitees about meetings they are part of.
type MeetingEventsConsumer struct {
	inbox  domain.Inbox
	logger *slog.Logger
}

// NewMeetingEventsConsumer creates a new consumer.
func NewMeetingEventsConsumer(inbox domain.Inbox, logger *slog.Logger) *MeetingEventsConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeetingEventsConsumer{inbox: inbox, logger: logger}
}

// EventTypes returns the event types this consumer handles.
func (c *MeetingEventsConsumer) EventTypes() []string {
	return []string{
		meetingDomain.RoutingKeyMeetingCreated,
		meetingDomain.RoutingKeyMeetingUpdated,
		meetingDomain.RoutingKeyMeetingCancelled,
	}
}

// meetingPayload holds the fields shared by the meeting events.
type meetingPayload struct {
	JoinCode      string   `json:"join_code"`
	Name          string   `json:"name"`
	InvitedUsers  []string `json:"invited_users"`
	Date          string   `json:"date"`
	ChangedFields []string `json:"changed_fields"`
}

// Handle processes an event. Malformed payloads are logged and dropped so
// they are not redelivered forever.
func (c *MeetingEventsConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload meetingPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		c.logger.Warn("failed to unmarshal meeting payload",
			"routing_key", event.RoutingKey,
			"aggregate_id", event.AggregateID,
			"error", err,
		)
		return nil
	}

	switch event.RoutingKey {
	case meetingDomain.RoutingKeyMeetingCreated:
		title := fmt.Sprintf("You are invited to %s on %s", payload.Name, displayDate(payload.Date))
		return c.notifyInvitees(ctx, payload, title, domain.SeverityInfo)
	case meetingDomain.RoutingKeyMeetingUpdated:
		if !slices.Contains(payload.ChangedFields, "date") {
			return nil
		}
		title := fmt.Sprintf("%s was moved to %s", payload.Name, displayDate(payload.Date))
		return c.notifyInvitees(ctx, payload, title, domain.SeverityInfo)
	case meetingDomain.RoutingKeyMeetingCancelled:
		return c.notifyInvitees(ctx, payload, payload.Name+" was cancelled", domain.SeverityWarning)
	default:
		c.logger.Warn("unknown event type",
			"routing_key", event.RoutingKey,
		)
		return nil
	}
}

func (c *MeetingEventsConsumer) notifyInvitees(ctx context.Context, payload meetingPayload, title string, severity domain.Severity) error {
	for _, invitee := range sharedDomain.NewUserIDs(payload.InvitedUsers) {
		if _, err := c.inbox.Push(ctx, invitee, title, severity); err != nil {
			return fmt.Errorf("notify %s: %w", invitee, err)
		}
	}
	c.logger.Debug("notified invitees",
		"join_code", payload.JoinCode,
		"count", len(payload.InvitedUsers),
	)
	return nil
}

// displayDate renders an ISO payload date as MM/DD/YYYY, leaving anything
// unparseable as is.
func displayDate(value string) string {
	date, err := meetingDomain.ParseDate(value)
	if err != nil {
		return value
	}
	return date.String()
}
