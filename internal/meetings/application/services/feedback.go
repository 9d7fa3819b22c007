package services

import (
	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	notificationsDomain "github.com/felixgeelhaar/huddle/internal/notifications/domain"
)

// Feedback is the notification shown to the requester after a denied join.
type Feedback struct {
	Title    string
	Severity notificationsDomain.Severity
}

// FeedbackFor maps a decision to its user-facing notification. Allowed,
// cancelled and not-found decisions carry none.
func FeedbackFor(decision domain.Decision) (Feedback, bool) {
	switch decision.Outcome {
	case domain.OutcomeDeniedEnded:
		return Feedback{Title: "Meeting has ended.", Severity: notificationsDomain.SeverityDanger}, true
	case domain.OutcomeDeniedNotYet:
		return Feedback{
			Title:    "Meeting is on " + decision.ScheduledDate.String(),
			Severity: notificationsDomain.SeverityWarning,
		}, true
	case domain.OutcomeDeniedNotInvited:
		return Feedback{Title: "You are not invited to the meeting.", Severity: notificationsDomain.SeverityDanger}, true
	default:
		return Feedback{}, false
	}
}

// RedirectFor returns where a denied requester is sent. Allowed decisions
// stay in the room and get an empty path.
func RedirectFor(decision domain.Decision, anonymous bool) string {
	if decision.IsAllowed() {
		return ""
	}
	if anonymous {
		return "/login"
	}
	return "/"
}
