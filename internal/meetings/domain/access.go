package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
)

// Outcome tags an access decision.
type Outcome string

const (
	OutcomeAllowed          Outcome = "allowed"
	OutcomeDeniedCancelled  Outcome = "denied_cancelled"
	OutcomeDeniedEnded      Outcome = "denied_ended"
	OutcomeDeniedNotInvited Outcome = "denied_not_invited"
	OutcomeDeniedNotYet     Outcome = "denied_not_yet"
	OutcomeNotFound         Outcome = "not_found"
)

// Decision is the result of asking whether a requester may enter a meeting.
// ScheduledDate is only set for OutcomeDeniedNotYet.
type Decision struct {
	Outcome       Outcome
	ScheduledDate Date
}

// IsAllowed reports whether the requester may enter the room.
func (d Decision) IsAllowed() bool {
	return d.Outcome == OutcomeAllowed
}

func (d Decision) String() string {
	if d.Outcome == OutcomeDeniedNotYet {
		return string(d.Outcome) + "(" + d.ScheduledDate.String() + ")"
	}
	return string(d.Outcome)
}

// Resolve decides whether requester may enter meeting on the day of now.
// A nil meeting means the lookup found nothing. Rules apply in order:
// cancellation, then invitation, then the meeting date.
func Resolve(meeting *Meeting, requester sharedDomain.UserID, now time.Time) Decision {
	if meeting == nil {
		return Decision{Outcome: OutcomeNotFound}
	}
	if !meeting.active {
		return Decision{Outcome: OutcomeDeniedCancelled}
	}
	if !meeting.Admits(requester) {
		return Decision{Outcome: OutcomeDeniedNotInvited}
	}
	switch timingOf(meeting.date, now) {
	case timingPast:
		return Decision{Outcome: OutcomeDeniedEnded}
	case timingFuture:
		return Decision{Outcome: OutcomeDeniedNotYet, ScheduledDate: meeting.date}
	default:
		return Decision{Outcome: OutcomeAllowed}
	}
}
