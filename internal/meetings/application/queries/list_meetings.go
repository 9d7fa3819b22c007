package queries

import (
	"context"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
)

// ListMyMeetingsQuery lists the meetings a viewer created.
type ListMyMeetingsQuery struct {
	Viewer sharedDomain.UserID
	// Status keeps only rows with this status when set.
	Status domain.Status
}

// ListMyMeetingsHandler handles the ListMyMeetingsQuery.
type ListMyMeetingsHandler struct {
	repo  domain.Repository
	clock sharedDomain.Clock
}

// NewListMyMeetingsHandler creates a new ListMyMeetingsHandler.
func NewListMyMeetingsHandler(repo domain.Repository, clock sharedDomain.Clock) *ListMyMeetingsHandler {
	return &ListMyMeetingsHandler{repo: repo, clock: clock}
}

// Handle executes the ListMyMeetingsQuery. Anonymous viewers own nothing.
func (h *ListMyMeetingsHandler) Handle(ctx context.Context, query ListMyMeetingsQuery) ([]MeetingDTO, error) {
	if query.Viewer.IsAnonymous() {
		return []MeetingDTO{}, nil
	}

	meetings, err := h.repo.FindByCreator(ctx, query.Viewer)
	if err != nil {
		return nil, err
	}

	return filterStatus(toDTOs(meetings, query.Viewer, h.clock.Now()), query.Status), nil
}

func filterStatus(dtos []MeetingDTO, status domain.Status) []MeetingDTO {
	if status == "" {
		return dtos
	}
	filtered := dtos[:0]
	for _, dto := range dtos {
		if dto.Status == string(status) {
			filtered = append(filtered, dto)
		}
	}
	return filtered
}
