package domain

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
)

// Repository persists meetings. Finders return nil without error when nothing matches.
type Repository interface {
	Save(ctx context.Context, meeting *Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*Meeting, error)
	FindByJoinCode(ctx context.Context, joinCode string) (*Meeting, error)
	FindByCreator(ctx context.Context, createdBy sharedDomain.UserID) ([]*Meeting, error)
	// FindVisibleTo returns meetings the viewer created, open meetings, and
	// meetings the viewer is invited to.
	FindVisibleTo(ctx context.Context, viewer sharedDomain.UserID) ([]*Meeting, error)
}
