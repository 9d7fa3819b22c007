package queries

import (
	"context"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
)

// ListVisibleMeetingsQuery lists every meeting a viewer can see: their own,
// open meetings and meetings they are invited to.
type ListVisibleMeetingsQuery struct {
	Viewer sharedDomain.UserID
	Status domain.Status
}

// ListVisibleMeetingsHandler handles the ListVisibleMeetingsQuery.
type ListVisibleMeetingsHandler struct {
	repo  domain.Repository
	clock sharedDomain.Clock
}

// NewListVisibleMeetingsHandler creates a new ListVisibleMeetingsHandler.
func NewListVisibleMeetingsHandler(repo domain.Repository, clock sharedDomain.Clock) *ListVisibleMeetingsHandler {
	return &ListVisibleMeetingsHandler{repo: repo, clock: clock}
}

// Handle executes the ListVisibleMeetingsQuery.
func (h *ListVisibleMeetingsHandler) Handle(ctx context.Context, query ListVisibleMeetingsQuery) ([]MeetingDTO, error) {
	meetings, err := h.repo.FindVisibleTo(ctx, query.Viewer)
	if err != nil {
		return nil, err
	}

	return filterStatus(toDTOs(meetings, query.Viewer, h.clock.Now()), query.Status), nil
}
