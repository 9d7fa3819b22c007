package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
)

var now = time.Date(2026, time.October, 18, 15, 30, 0, 0, time.Local)

func today() domain.Date     { return domain.DateOf(now) }
func yesterday() domain.Date { return today().AddDays(-1) }
func tomorrow() domain.Date  { return today().AddDays(1) }

func user(id string) sharedDomain.UserID { return sharedDomain.NewUserID(id) }

func users(ids ...string) []sharedDomain.UserID { return sharedDomain.NewUserIDs(ids) }

// record builds a meeting the way the store hands it back, skipping
// constructor validation so malformed rows can be exercised.
func record(t *testing.T, meetingType domain.Type, createdBy string, invitees []string, date domain.Date, active bool) *domain.Meeting {
	t.Helper()
	return domain.RehydrateMeeting(
		uuid.New(),
		"AbC123xy",
		"Standup",
		meetingType,
		user(createdBy),
		users(invitees...),
		date,
		10,
		active,
		now, now, 1,
	)
}
