package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeeting(t *testing.T) {
	t.Run("creates group meeting and records event", func(t *testing.T) {
		m, err := domain.NewMeeting(user("U1"), "AbC123xy", "  Planning  ", domain.TypeGroupInvite, users("U2", "U3", "U2"), tomorrow(), 0)
		require.NoError(t, err)

		assert.Equal(t, "Planning", m.Name())
		assert.Equal(t, "AbC123xy", m.JoinCode())
		assert.True(t, m.IsActive())
		assert.Equal(t, users("U2", "U3"), m.InvitedUsers())
		assert.Equal(t, 50, m.MaxUsers())

		require.Len(t, m.DomainEvents(), 1)
		created, ok := m.DomainEvents()[0].(*domain.MeetingCreated)
		require.True(t, ok)
		assert.Equal(t, domain.RoutingKeyMeetingCreated, created.RoutingKey())
		assert.Equal(t, []string{"U2", "U3"}, created.InvitedUsers)
		assert.Equal(t, tomorrow().ISO(), created.Date)
	})

	t.Run("open meeting drops invitees", func(t *testing.T) {
		m, err := domain.NewMeeting(user("U1"), "AbC123xy", "Town hall", domain.TypeOpen, users("U2"), today(), 0)
		require.NoError(t, err)

		assert.Empty(t, m.InvitedUsers())
		assert.Equal(t, 100, m.MaxUsers())
	})

	t.Run("direct meeting defaults to one seat", func(t *testing.T) {
		m, err := domain.NewMeeting(user("U1"), "AbC123xy", "1:1", domain.TypeDirectInvite, users("U2"), today(), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, m.MaxUsers())
	})

	tests := []struct {
		name     string
		creator  sharedDomain.UserID
		code     string
		title    string
		kind     domain.Type
		invitees []sharedDomain.UserID
		date     domain.Date
		maxUsers int
		wantErr  error
	}{
		{"anonymous creator", sharedDomain.Anonymous, "AbC123xy", "x", domain.TypeOpen, nil, today(), 0, domain.ErrMeetingCreatorRequired},
		{"bad join code", user("U1"), "nope", "x", domain.TypeOpen, nil, today(), 0, domain.ErrMeetingInvalidJoinCode},
		{"empty name", user("U1"), "AbC123xy", "  ", domain.TypeOpen, nil, today(), 0, domain.ErrMeetingEmptyName},
		{"bad type", user("U1"), "AbC123xy", "x", domain.Type("party"), nil, today(), 0, domain.ErrMeetingInvalidType},
		{"no date", user("U1"), "AbC123xy", "x", domain.TypeOpen, nil, domain.Date{}, 0, domain.ErrMeetingDateRequired},
		{"direct without invitee", user("U1"), "AbC123xy", "x", domain.TypeDirectInvite, nil, today(), 0, domain.ErrDirectInviteNeedsOne},
		{"direct with two", user("U1"), "AbC123xy", "x", domain.TypeDirectInvite, users("U2", "U3"), today(), 0, domain.ErrDirectInviteNeedsOne},
		{"group without invitee", user("U1"), "AbC123xy", "x", domain.TypeGroupInvite, nil, today(), 0, domain.ErrGroupInviteNeedsInvitee},
		{"negative capacity", user("U1"), "AbC123xy", "x", domain.TypeOpen, nil, today(), -1, domain.ErrMeetingInvalidMaxUsers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewMeeting(tt.creator, tt.code, tt.title, tt.kind, tt.invitees, tt.date, tt.maxUsers)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]domain.Type{
		"open":             domain.TypeOpen,
		"anyone-can-join":  domain.TypeOpen,
		"group-invite":     domain.TypeGroupInvite,
		"video-conference": domain.TypeGroupInvite,
		"direct-invite":    domain.TypeDirectInvite,
		"1-on-1":           domain.TypeDirectInvite,
		" Direct ":         domain.TypeDirectInvite,
	}
	for input, want := range tests {
		got, err := domain.ParseType(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := domain.ParseType("webinar")
	assert.ErrorIs(t, err, domain.ErrMeetingInvalidType)
}

func TestMeeting_Edit(t *testing.T) {
	newMeeting := func(t *testing.T) *domain.Meeting {
		m, err := domain.NewMeeting(user("U1"), "AbC123xy", "Planning", domain.TypeGroupInvite, users("U2"), tomorrow(), 10)
		require.NoError(t, err)
		m.ClearDomainEvents()
		return m
	}

	t.Run("collects changes into one event", func(t *testing.T) {
		m := newMeeting(t)

		require.NoError(t, m.Rename("Retro", now))
		require.NoError(t, m.Reschedule(today(), now))
		require.NoError(t, m.SetInvitees(users("U2", "U4"), now))
		require.NoError(t, m.SetMaxUsers(20, now))

		assert.True(t, m.RecordUpdate())
		require.Len(t, m.DomainEvents(), 1)
		updated := m.DomainEvents()[0].(*domain.MeetingUpdated)
		assert.Equal(t, []string{"name", "date", "invited_users", "max_users"}, updated.ChangedFields)
		assert.False(t, m.RecordUpdate())
	})

	t.Run("no-op edits record nothing", func(t *testing.T) {
		m := newMeeting(t)

		require.NoError(t, m.Rename("Planning", now))
		require.NoError(t, m.SetMaxUsers(10, now))

		assert.False(t, m.RecordUpdate())
		assert.Empty(t, m.DomainEvents())
	})

	t.Run("rejects past dates", func(t *testing.T) {
		m := newMeeting(t)
		assert.ErrorIs(t, m.Reschedule(yesterday(), now), domain.ErrMeetingDateInPast)
	})

	t.Run("keeps invite cardinality", func(t *testing.T) {
		m := newMeeting(t)
		assert.ErrorIs(t, m.SetInvitees(nil, now), domain.ErrGroupInviteNeedsInvitee)
	})

	t.Run("cancelled meetings are frozen", func(t *testing.T) {
		m := newMeeting(t)
		m.Cancel()

		assert.False(t, m.IsEditable(now))
		assert.ErrorIs(t, m.Rename("Other", now), domain.ErrMeetingCancelled)
		assert.ErrorIs(t, m.Reschedule(tomorrow(), now), domain.ErrMeetingCancelled)
	})

	t.Run("ended meetings are frozen", func(t *testing.T) {
		m := record(t, domain.TypeGroupInvite, "U1", []string{"U2"}, yesterday(), true)

		assert.True(t, m.HasEnded(now))
		assert.ErrorIs(t, m.Rename("Other", now), domain.ErrMeetingEnded)
	})
}

func TestMeeting_Cancel(t *testing.T) {
	m, err := domain.NewMeeting(user("U1"), "AbC123xy", "Planning", domain.TypeDirectInvite, users("U2"), today(), 0)
	require.NoError(t, err)
	m.ClearDomainEvents()

	m.Cancel()
	m.Cancel()

	assert.False(t, m.IsActive())
	require.Len(t, m.DomainEvents(), 1)
	cancelled := m.DomainEvents()[0].(*domain.MeetingCancelled)
	assert.Equal(t, "AbC123xy", cancelled.JoinCode)
	assert.Equal(t, []string{"U2"}, cancelled.InvitedUsers)
}

func TestMeeting_Membership(t *testing.T) {
	m := record(t, domain.TypeGroupInvite, "U1", []string{"U2"}, today(), true)

	assert.True(t, m.IsCreator(user("U1")))
	assert.False(t, m.IsCreator(sharedDomain.Anonymous))
	assert.True(t, m.IsInvited(user("U2")))
	assert.False(t, m.IsInvited(user("U1")))
}
