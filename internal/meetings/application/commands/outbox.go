package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/huddle/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/outbox"
)

// enqueueEvents writes the aggregate's pending events to the outbox within
// the caller's transaction and clears them.
func enqueueEvents(ctx context.Context, outboxRepo outbox.Repository, aggregate sharedDomain.AggregateRoot, userID sharedDomain.UserID) error {
	events := aggregate.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}

	aggregate.ClearDomainEvents()
	return nil
}
