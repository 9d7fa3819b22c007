package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		date   domain.Date
		active bool
		want   domain.Status
	}{
		{"cancelled today", today(), false, domain.StatusCancelled},
		{"cancelled in the past", yesterday(), false, domain.StatusCancelled},
		{"ended", yesterday(), true, domain.StatusEnded},
		{"today", today(), true, domain.StatusJoinNow},
		{"tomorrow", tomorrow(), true, domain.StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meeting := record(t, domain.TypeGroupInvite, "U1", []string{"U2"}, tt.date, tt.active)
			assert.Equal(t, tt.want, domain.Classify(meeting, now))
		})
	}
}

func TestClassify_AgreesWithResolve(t *testing.T) {
	expected := map[domain.Status]domain.Outcome{
		domain.StatusEnded:    domain.OutcomeDeniedEnded,
		domain.StatusJoinNow:  domain.OutcomeAllowed,
		domain.StatusUpcoming: domain.OutcomeDeniedNotYet,
	}

	for offset := -3; offset <= 3; offset++ {
		for _, meetingType := range allTypes {
			meeting := record(t, meetingType, "U1", []string{"U2"}, today().AddDays(offset), true)

			status := domain.Classify(meeting, now)
			decision := domain.Resolve(meeting, user("U1"), now)

			assert.Equal(t, expected[status], decision.Outcome, "offset=%d type=%s", offset, meetingType)
		}
	}
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Join Now", domain.StatusJoinNow.Label())
	assert.Equal(t, "Cancelled", domain.StatusCancelled.Label())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Status
	}{
		{"upcoming", domain.StatusUpcoming},
		{"Join Now", domain.StatusJoinNow},
		{"join_now", domain.StatusJoinNow},
		{" ENDED ", domain.StatusEnded},
		{"cancelled", domain.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseStatus(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := domain.ParseStatus("live")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
