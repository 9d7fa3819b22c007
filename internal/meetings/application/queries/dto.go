package queries

import (
	"time"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
)

// MeetingDTO is a data transfer object for meetings.
type MeetingDTO struct {
	ID           uuid.UUID `json:"id" yaml:"id"`
	JoinCode     string    `json:"join_code" yaml:"join_code"`
	Name         string    `json:"name" yaml:"name"`
	Type         string    `json:"type" yaml:"type"`
	TypeLabel    string    `json:"type_label" yaml:"type_label"`
	CreatedBy    string    `json:"created_by" yaml:"created_by"`
	InvitedUsers []string  `json:"invited_users,omitempty" yaml:"invited_users,omitempty"`
	Date         string    `json:"date" yaml:"date"`
	MaxUsers     int       `json:"max_users" yaml:"max_users"`
	Active       bool      `json:"active" yaml:"active"`
	Status       string    `json:"status" yaml:"status"`
	StatusLabel  string    `json:"status_label" yaml:"status_label"`
	Editable     bool      `json:"editable" yaml:"editable"`
}

// toDTO flattens a meeting for display. Editable is only ever true for the
// creator.
func toDTO(meeting *domain.Meeting, viewer sharedDomain.UserID, now time.Time) MeetingDTO {
	status := domain.Classify(meeting, now)
	return MeetingDTO{
		ID:           meeting.ID(),
		JoinCode:     meeting.JoinCode(),
		Name:         meeting.Name(),
		Type:         string(meeting.Type()),
		TypeLabel:    meeting.Type().Label(),
		CreatedBy:    meeting.CreatedBy().String(),
		InvitedUsers: sharedDomain.UserIDStrings(meeting.InvitedUsers()),
		Date:         meeting.Date().String(),
		MaxUsers:     meeting.MaxUsers(),
		Active:       meeting.IsActive(),
		Status:       string(status),
		StatusLabel:  status.Label(),
		Editable:     meeting.IsCreator(viewer) && meeting.IsEditable(now),
	}
}

func toDTOs(meetings []*domain.Meeting, viewer sharedDomain.UserID, now time.Time) []MeetingDTO {
	dtos := make([]MeetingDTO, 0, len(meetings))
	for _, meeting := range meetings {
		dtos = append(dtos, toDTO(meeting, viewer, now))
	}
	return dtos
}
