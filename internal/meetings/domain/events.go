package domain

import (
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
)

const (
	AggregateType = "Meeting"

	RoutingKeyMeetingCreated   = "meetings.meeting.created"
	RoutingKeyMeetingUpdated   = "meetings.meeting.updated"
	RoutingKeyMeetingCancelled = "meetings.meeting.cancelled"
)

// MeetingCreated is emitted when a meeting is created.
type MeetingCreated struct {
	sharedDomain.BaseEvent
	JoinCode     string   `json:"join_code"`
	Name         string   `json:"name"`
	MeetingType  Type     `json:"meeting_type"`
	CreatedBy    string   `json:"created_by"`
	InvitedUsers []string `json:"invited_users"`
	Date         string   `json:"date"`
	MaxUsers     int      `json:"max_users"`
}

// NewMeetingCreated creates a MeetingCreated event.
func NewMeetingCreated(m *Meeting) *MeetingCreated {
	return &MeetingCreated{
		BaseEvent:    sharedDomain.NewBaseEvent(m.ID(), AggregateType, RoutingKeyMeetingCreated),
		JoinCode:     m.joinCode,
		Name:         m.name,
		MeetingType:  m.meetingType,
		CreatedBy:    m.createdBy.String(),
		InvitedUsers: sharedDomain.UserIDStrings(m.invitedUsers),
		Date:         m.date.ISO(),
		MaxUsers:     m.maxUsers,
	}
}

// MeetingUpdated is emitted once per edit with the names of the changed fields.
type MeetingUpdated struct {
	sharedDomain.BaseEvent
	JoinCode      string   `json:"join_code"`
	Name          string   `json:"name"`
	ChangedFields []string `json:"changed_fields"`
	InvitedUsers  []string `json:"invited_users"`
	Date          string   `json:"date"`
}

// NewMeetingUpdated creates a MeetingUpdated event.
func NewMeetingUpdated(m *Meeting, fields []string) *MeetingUpdated {
	return &MeetingUpdated{
		BaseEvent:     sharedDomain.NewBaseEvent(m.ID(), AggregateType, RoutingKeyMeetingUpdated),
		JoinCode:      m.joinCode,
		Name:          m.name,
		ChangedFields: append([]string(nil), fields...),
		InvitedUsers:  sharedDomain.UserIDStrings(m.invitedUsers),
		Date:          m.date.ISO(),
	}
}

// MeetingCancelled is emitted when the creator cancels a meeting.
type MeetingCancelled struct {
	sharedDomain.BaseEvent
	JoinCode     string   `json:"join_code"`
	Name         string   `json:"name"`
	InvitedUsers []string `json:"invited_users"`
	Date         string   `json:"date"`
}

// NewMeetingCancelled creates a MeetingCancelled event.
func NewMeetingCancelled(m *Meeting) *MeetingCancelled {
	return &MeetingCancelled{
		BaseEvent:    sharedDomain.NewBaseEvent(m.ID(), AggregateType, RoutingKeyMeetingCancelled),
		JoinCode:     m.joinCode,
		Name:         m.name,
		InvitedUsers: sharedDomain.UserIDStrings(m.invitedUsers),
		Date:         m.date.ISO(),
	}
}
