package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/stretchr/testify/assert"
)

var allTypes = []domain.Type{domain.TypeOpen, domain.TypeGroupInvite, domain.TypeDirectInvite}

func TestResolve_DirectInviteScenario(t *testing.T) {
	meeting := record(t, domain.TypeDirectInvite, "U1", []string{"U2"}, today(), true)

	assert.Equal(t, domain.OutcomeDeniedNotInvited, domain.Resolve(meeting, user("U3"), now).Outcome)
	assert.Equal(t, domain.OutcomeAllowed, domain.Resolve(meeting, user("U2"), now).Outcome)

	ended := record(t, domain.TypeDirectInvite, "U1", []string{"U2"}, yesterday(), true)
	assert.Equal(t, domain.OutcomeDeniedEnded, domain.Resolve(ended, user("U2"), now).Outcome)

	cancelled := record(t, domain.TypeDirectInvite, "U1", []string{"U2"}, today(), false)
	assert.Equal(t, domain.OutcomeDeniedCancelled, domain.Resolve(cancelled, user("U1"), now).Outcome)
}

func TestResolve_NotFound(t *testing.T) {
	decision := domain.Resolve(nil, user("U1"), now)

	assert.Equal(t, domain.OutcomeNotFound, decision.Outcome)
	assert.False(t, decision.IsAllowed())
}

func TestResolve_CancelledDominates(t *testing.T) {
	requesters := []sharedDomain.UserID{user("U1"), user("U2"), user("U9"), sharedDomain.Anonymous}
	for _, meetingType := range allTypes {
		for _, date := range []domain.Date{yesterday(), today(), tomorrow()} {
			meeting := record(t, meetingType, "U1", []string{"U2"}, date, false)
			for _, requester := range requesters {
				decision := domain.Resolve(meeting, requester, now)
				assert.Equal(t, domain.OutcomeDeniedCancelled, decision.Outcome,
					"type=%s date=%s requester=%q", meetingType, date, requester)
			}
		}
	}
}

func TestResolve_OpenMeetingsSkipInviteGating(t *testing.T) {
	tests := []struct {
		date domain.Date
		want domain.Outcome
	}{
		{yesterday(), domain.OutcomeDeniedEnded},
		{today(), domain.OutcomeAllowed},
		{tomorrow(), domain.OutcomeDeniedNotYet},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			meeting := record(t, domain.TypeOpen, "U1", nil, tt.date, true)
			for _, requester := range []sharedDomain.UserID{sharedDomain.Anonymous, user("U1"), user("stranger")} {
				assert.Equal(t, tt.want, domain.Resolve(meeting, requester, now).Outcome)
			}
		})
	}
}

func TestResolve_CreatorBypassesInviteList(t *testing.T) {
	for _, meetingType := range []domain.Type{domain.TypeGroupInvite, domain.TypeDirectInvite} {
		t.Run(string(meetingType), func(t *testing.T) {
			meeting := record(t, meetingType, "U1", []string{"U2"}, today(), true)
			assert.Equal(t, domain.OutcomeAllowed, domain.Resolve(meeting, user("U1"), now).Outcome)
		})
	}
}

func TestResolve_GroupInvite(t *testing.T) {
	meeting := record(t, domain.TypeGroupInvite, "U1", []string{"U2", "U3"}, today(), true)

	tests := []struct {
		name      string
		requester sharedDomain.UserID
		want      domain.Outcome
	}{
		{"first invitee", user("U2"), domain.OutcomeAllowed},
		{"second invitee", user("U3"), domain.OutcomeAllowed},
		{"stranger", user("U4"), domain.OutcomeDeniedNotInvited},
		{"anonymous", sharedDomain.Anonymous, domain.OutcomeDeniedNotInvited},
		{"case differs", user("u2"), domain.OutcomeDeniedNotInvited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Resolve(meeting, tt.requester, now).Outcome)
		})
	}
}

func TestResolve_DirectInviteOnlyFirstEntryCounts(t *testing.T) {
	meeting := record(t, domain.TypeDirectInvite, "U1", []string{"U2", "U3"}, today(), true)

	assert.Equal(t, domain.OutcomeAllowed, domain.Resolve(meeting, user("U2"), now).Outcome)
	assert.Equal(t, domain.OutcomeDeniedNotInvited, domain.Resolve(meeting, user("U3"), now).Outcome)
}

func TestResolve_DirectInviteWithoutInvitee(t *testing.T) {
	meeting := record(t, domain.TypeDirectInvite, "U1", nil, today(), true)

	assert.Equal(t, domain.OutcomeDeniedNotInvited, domain.Resolve(meeting, user("U2"), now).Outcome)
	assert.Equal(t, domain.OutcomeDeniedNotInvited, domain.Resolve(meeting, sharedDomain.Anonymous, now).Outcome)
	assert.Equal(t, domain.OutcomeAllowed, domain.Resolve(meeting, user("U1"), now).Outcome)
}

func TestResolve_InviteDenialBeatsDate(t *testing.T) {
	meeting := record(t, domain.TypeGroupInvite, "U1", []string{"U2"}, yesterday(), true)

	assert.Equal(t, domain.OutcomeDeniedNotInvited, domain.Resolve(meeting, user("U9"), now).Outcome)
}

func TestResolve_NotYetCarriesDate(t *testing.T) {
	date := today().AddDays(5)
	meeting := record(t, domain.TypeGroupInvite, "U1", []string{"U2"}, date, true)

	decision := domain.Resolve(meeting, user("U2"), now)

	assert.Equal(t, domain.OutcomeDeniedNotYet, decision.Outcome)
	assert.Equal(t, date, decision.ScheduledDate)
	assert.Contains(t, decision.String(), date.String())
}

func TestResolve_DayBoundaryIgnoresTimeOfDay(t *testing.T) {
	meeting := record(t, domain.TypeOpen, "U1", nil, today(), true)

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24*time.Hour - time.Nanosecond)

	assert.True(t, domain.Resolve(meeting, sharedDomain.Anonymous, startOfDay).IsAllowed())
	assert.True(t, domain.Resolve(meeting, sharedDomain.Anonymous, endOfDay).IsAllowed())
	assert.Equal(t, domain.OutcomeDeniedEnded, domain.Resolve(meeting, sharedDomain.Anonymous, endOfDay.Add(time.Nanosecond)).Outcome)
}

func TestResolve_IsDeterministic(t *testing.T) {
	meeting := record(t, domain.TypeGroupInvite, "U1", []string{"U2"}, tomorrow(), true)

	first := domain.Resolve(meeting, user("U2"), now)
	for range 10 {
		assert.Equal(t, first, domain.Resolve(meeting, user("U2"), now))
	}
}
