package queries

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
)

// ErrMeetingNotFound is returned when a meeting is not found.
var ErrMeetingNotFound = errors.New("meeting not found")

// GetMeetingQuery contains the parameters for getting a single meeting.
type GetMeetingQuery struct {
	JoinCode string
	Viewer   sharedDomain.UserID
}

// MeetingDetailDTO adds the viewer's access decision to a meeting.
type MeetingDetailDTO struct {
	MeetingDTO `yaml:",inline"`
	Access     string `json:"access" yaml:"access"`
}

// GetMeetingHandler handles the GetMeetingQuery.
type GetMeetingHandler struct {
	repo  domain.Repository
	clock sharedDomain.Clock
}

// NewGetMeetingHandler creates a new GetMeetingHandler.
func NewGetMeetingHandler(repo domain.Repository, clock sharedDomain.Clock) *GetMeetingHandler {
	return &GetMeetingHandler{repo: repo, clock: clock}
}

// Handle executes the GetMeetingQuery.
func (h *GetMeetingHandler) Handle(ctx context.Context, query GetMeetingQuery) (*MeetingDetailDTO, error) {
	meeting, err := h.repo.FindByJoinCode(ctx, query.JoinCode)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, ErrMeetingNotFound
	}

	now := h.clock.Now()
	return &MeetingDetailDTO{
		MeetingDTO: toDTO(meeting, query.Viewer, now),
		Access:     string(domain.Resolve(meeting, query.Viewer, now).Outcome),
	}, nil
}
