package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrMeetingEmptyName        = errors.New("meeting name cannot be empty")
	ErrMeetingInvalidType      = errors.New("invalid meeting type")
	ErrMeetingCreatorRequired  = errors.New("meeting creator is required")
	ErrMeetingDateRequired     = errors.New("meeting date is required")
	ErrMeetingDateInPast       = errors.New("meeting date cannot be in the past")
	ErrMeetingInvalidJoinCode  = errors.New("invalid meeting join code")
	ErrMeetingInvalidMaxUsers  = errors.New("max users cannot be negative")
	ErrDirectInviteNeedsOne    = errors.New("direct-invite meetings need exactly one invitee")
	ErrGroupInviteNeedsInvitee = errors.New("group-invite meetings need at least one invitee")
	ErrMeetingCancelled        = errors.New("meeting is cancelled")
	ErrMeetingEnded            = errors.New("meeting has ended")
)

// Type controls who may be admitted to a meeting.
type Type string

const (
	TypeOpen         Type = "open"
	TypeGroupInvite  Type = "group-invite"
	TypeDirectInvite Type = "direct-invite"
)

// ParseType accepts the canonical names and the labels older clients stored.
func ParseType(value string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(TypeOpen), "anyone-can-join":
		return TypeOpen, nil
	case string(TypeGroupInvite), "video-conference", "group":
		return TypeGroupInvite, nil
	case string(TypeDirectInvite), "1-on-1", "direct":
		return TypeDirectInvite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrMeetingInvalidType, value)
	}
}

// IsValid checks if the type is supported.
func (t Type) IsValid() bool {
	switch t {
	case TypeOpen, TypeGroupInvite, TypeDirectInvite:
		return true
	default:
		return false
	}
}

// Label is the human name shown in listings.
func (t Type) Label() string {
	switch t {
	case TypeOpen:
		return "Anyone Can Join"
	case TypeGroupInvite:
		return "Video Conference"
	case TypeDirectInvite:
		return "1-on-1"
	default:
		return string(t)
	}
}

// DefaultMaxUsers is the capacity used when the creator does not set one.
func (t Type) DefaultMaxUsers() int {
	switch t {
	case TypeOpen:
		return 100
	case TypeDirectInvite:
		return 1
	default:
		return 50
	}
}

// Meeting is a scheduled video meeting identified externally by its join code.
type Meeting struct {
	sharedDomain.BaseAggregateRoot
	joinCode     string
	name         string
	meetingType  Type
	createdBy    sharedDomain.UserID
	invitedUsers []sharedDomain.UserID
	date         Date
	maxUsers     int
	active       bool
	changes      []string
}

// NewMeeting creates an active meeting and records MeetingCreated.
func NewMeeting(
	createdBy sharedDomain.UserID,
	joinCode string,
	name string,
	meetingType Type,
	invitees []sharedDomain.UserID,
	date Date,
	maxUsers int,
) (*Meeting, error) {
	if createdBy.IsAnonymous() {
		return nil, ErrMeetingCreatorRequired
	}
	if !IsValidJoinCode(joinCode) {
		return nil, ErrMeetingInvalidJoinCode
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMeetingEmptyName
	}
	if !meetingType.IsValid() {
		return nil, ErrMeetingInvalidType
	}
	if date.IsZero() {
		return nil, ErrMeetingDateRequired
	}
	invitees, err := normalizeInvitees(meetingType, invitees)
	if err != nil {
		return nil, err
	}
	maxUsers, err = normalizeMaxUsers(meetingType, maxUsers)
	if err != nil {
		return nil, err
	}

	m := &Meeting{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		joinCode:          joinCode,
		name:              name,
		meetingType:       meetingType,
		createdBy:         createdBy,
		invitedUsers:      invitees,
		date:              date,
		maxUsers:          maxUsers,
		active:            true,
	}
	m.AddDomainEvent(NewMeetingCreated(m))
	return m, nil
}

// RehydrateMeeting recreates a meeting from persisted state without validation.
func RehydrateMeeting(
	id uuid.UUID,
	joinCode string,
	name string,
	meetingType Type,
	createdBy sharedDomain.UserID,
	invitees []sharedDomain.UserID,
	date Date,
	maxUsers int,
	active bool,
	createdAt, updatedAt time.Time,
	version int,
) *Meeting {
	return &Meeting{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(id, createdAt, updatedAt, version),
		joinCode:          joinCode,
		name:              name,
		meetingType:       meetingType,
		createdBy:         createdBy,
		invitedUsers:      slices.Clone(invitees),
		date:              date,
		maxUsers:          maxUsers,
		active:            active,
	}
}

func (m *Meeting) JoinCode() string               { return m.joinCode }
func (m *Meeting) Name() string                   { return m.name }
func (m *Meeting) Type() Type                     { return m.meetingType }
func (m *Meeting) CreatedBy() sharedDomain.UserID { return m.createdBy }
func (m *Meeting) Date() Date                     { return m.date }
func (m *Meeting) MaxUsers() int                  { return m.maxUsers }
func (m *Meeting) IsActive() bool                 { return m.active }

// InvitedUsers returns a copy of the invite list in its stored order.
func (m *Meeting) InvitedUsers() []sharedDomain.UserID {
	return slices.Clone(m.invitedUsers)
}

// IsCreator reports whether id created the meeting.
func (m *Meeting) IsCreator(id sharedDomain.UserID) bool {
	return id.Is(m.createdBy)
}

// IsInvited reports whether id is on the invite list.
func (m *Meeting) IsInvited(id sharedDomain.UserID) bool {
	return slices.ContainsFunc(m.invitedUsers, id.Is)
}

// Admits applies the invitation rule for the meeting type. Dates and
// cancellation are not considered. A direct-invite meeting with an empty
// invite list admits only its creator.
func (m *Meeting) Admits(requester sharedDomain.UserID) bool {
	switch m.meetingType {
	case TypeOpen:
		return true
	case TypeGroupInvite:
		return m.IsCreator(requester) || m.IsInvited(requester)
	case TypeDirectInvite:
		if m.IsCreator(requester) {
			return true
		}
		return len(m.invitedUsers) > 0 && requester.Is(m.invitedUsers[0])
	default:
		return false
	}
}

// HasEnded reports whether the meeting date is before the day of now.
func (m *Meeting) HasEnded(now time.Time) bool {
	return timingOf(m.date, now) == timingPast
}

// IsEditable reports whether the edit operations are still permitted.
func (m *Meeting) IsEditable(now time.Time) bool {
	return m.ensureEditable(now) == nil
}

// Rename changes the display name.
func (m *Meeting) Rename(name string, now time.Time) error {
	if err := m.ensureEditable(now); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrMeetingEmptyName
	}
	if name == m.name {
		return nil
	}
	m.name = name
	m.changed("name")
	return nil
}

// Reschedule moves the meeting to another day that is not in the past.
func (m *Meeting) Reschedule(date Date, now time.Time) error {
	if err := m.ensureEditable(now); err != nil {
		return err
	}
	if err := ValidateSchedule(date, now); err != nil {
		return err
	}
	if date == m.date {
		return nil
	}
	m.date = date
	m.changed("date")
	return nil
}

// SetInvitees replaces the invite list, keeping the per-type cardinality rules.
func (m *Meeting) SetInvitees(invitees []sharedDomain.UserID, now time.Time) error {
	if err := m.ensureEditable(now); err != nil {
		return err
	}
	normalized, err := normalizeInvitees(m.meetingType, invitees)
	if err != nil {
		return err
	}
	if slices.Equal(normalized, m.invitedUsers) {
		return nil
	}
	m.invitedUsers = normalized
	m.changed("invited_users")
	return nil
}

// SetMaxUsers updates the capacity hint. Zero restores the type default.
func (m *Meeting) SetMaxUsers(maxUsers int, now time.Time) error {
	if err := m.ensureEditable(now); err != nil {
		return err
	}
	normalized, err := normalizeMaxUsers(m.meetingType, maxUsers)
	if err != nil {
		return err
	}
	if normalized == m.maxUsers {
		return nil
	}
	m.maxUsers = normalized
	m.changed("max_users")
	return nil
}

// RecordUpdate emits a single MeetingUpdated for the edits made since the
// last call. It reports whether anything changed.
func (m *Meeting) RecordUpdate() bool {
	if len(m.changes) == 0 {
		return false
	}
	m.AddDomainEvent(NewMeetingUpdated(m, m.changes))
	m.changes = nil
	return true
}

// Cancel deactivates the meeting. Cancellation is terminal; cancelling
// twice records a single event.
func (m *Meeting) Cancel() {
	if !m.active {
		return
	}
	m.active = false
	m.Touch()
	m.AddDomainEvent(NewMeetingCancelled(m))
}

// ValidateSchedule rejects dates before the day of now.
func ValidateSchedule(date Date, now time.Time) error {
	if date.IsZero() {
		return ErrMeetingDateRequired
	}
	if timingOf(date, now) == timingPast {
		return ErrMeetingDateInPast
	}
	return nil
}

func (m *Meeting) ensureEditable(now time.Time) error {
	if !m.active {
		return ErrMeetingCancelled
	}
	if m.HasEnded(now) {
		return ErrMeetingEnded
	}
	return nil
}

func (m *Meeting) changed(field string) {
	if !slices.Contains(m.changes, field) {
		m.changes = append(m.changes, field)
	}
	m.Touch()
}

func normalizeInvitees(meetingType Type, invitees []sharedDomain.UserID) ([]sharedDomain.UserID, error) {
	if meetingType == TypeOpen {
		return nil, nil
	}
	unique := make([]sharedDomain.UserID, 0, len(invitees))
	for _, id := range invitees {
		if id.IsAnonymous() || slices.Contains(unique, id) {
			continue
		}
		unique = append(unique, id)
	}
	switch {
	case meetingType == TypeDirectInvite && len(unique) != 1:
		return nil, ErrDirectInviteNeedsOne
	case meetingType == TypeGroupInvite && len(unique) == 0:
		return nil, ErrGroupInviteNeedsInvitee
	}
	return unique, nil
}

func normalizeMaxUsers(meetingType Type, maxUsers int) (int, error) {
	switch {
	case maxUsers < 0:
		return 0, ErrMeetingInvalidMaxUsers
	case maxUsers == 0:
		return meetingType.DefaultMaxUsers(), nil
	default:
		return maxUsers, nil
	}
}
