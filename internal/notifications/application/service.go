package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/huddle/internal/notifications/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
)

// ErrInvalidNotificationID is returned when a notification id cannot be parsed.
var ErrInvalidNotificationID = errors.New("invalid notification id")

// Service is the use-case entry point for an identity's notifications.
type Service struct {
	inbox domain.Inbox
}

// NewService creates a notification service over an inbox.
func NewService(inbox domain.Inbox) *Service {
	return &Service{inbox: inbox}
}

// Notify pushes a notification to owner. Severity names are parsed with
// domain.ParseSeverity.
func (s *Service) Notify(ctx context.Context, owner sharedDomain.UserID, title, severity string) (domain.Notification, error) {
	parsed, err := domain.ParseSeverity(severity)
	if err != nil {
		return domain.Notification{}, err
	}
	return s.inbox.Push(ctx, owner, title, parsed)
}

// Dismiss removes a notification. Unknown ids are not an error.
func (s *Service) Dismiss(ctx context.Context, owner sharedDomain.UserID, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidNotificationID, id)
	}
	return s.inbox.Dismiss(ctx, owner, parsed)
}

// DismissAll clears the owner's queue and reports how many were removed.
func (s *Service) DismissAll(ctx context.Context, owner sharedDomain.UserID) (int, error) {
	pending, err := s.inbox.List(ctx, owner)
	if err != nil {
		return 0, err
	}
	for _, n := range pending {
		if err := s.inbox.Dismiss(ctx, owner, n.ID); err != nil {
			return 0, err
		}
	}
	return len(pending), nil
}

// List returns the owner's notifications in insertion order.
func (s *Service) List(ctx context.Context, owner sharedDomain.UserID) ([]domain.Notification, error) {
	return s.inbox.List(ctx, owner)
}
