package domain

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
)

// Inbox stores notification queues per identity. An in-process inbox keeps
// one anonymous queue for the process; a shared inbox refuses anonymous
// owners with ErrAnonymousOwner.
type Inbox interface {
	Push(ctx context.Context, owner sharedDomain.UserID, title string, severity Severity) (Notification, error)
	Dismiss(ctx context.Context, owner sharedDomain.UserID, id uuid.UUID) error
	List(ctx context.Context, owner sharedDomain.UserID) ([]Notification, error)
}
