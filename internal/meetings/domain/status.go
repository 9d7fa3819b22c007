package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidStatus is returned for an unknown status filter.
var ErrInvalidStatus = errors.New("invalid meeting status")

// Status is the viewer-independent lifecycle label shown in listings.
type Status string

const (
	StatusCancelled Status = "cancelled"
	StatusEnded     Status = "ended"
	StatusJoinNow   Status = "join_now"
	StatusUpcoming  Status = "upcoming"
)

// ParseStatus accepts the status names and their labels, case-insensitively.
func ParseStatus(value string) (Status, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "_")
	for _, s := range []Status{StatusCancelled, StatusEnded, StatusJoinNow, StatusUpcoming} {
		if normalized == string(s) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

// Label is the text rendered in tables.
func (s Status) Label() string {
	switch s {
	case StatusCancelled:
		return "Cancelled"
	case StatusEnded:
		return "Ended"
	case StatusJoinNow:
		return "Join Now"
	case StatusUpcoming:
		return "Upcoming"
	default:
		return string(s)
	}
}

// Classify labels a meeting on the day of now. It shares its day boundary
// with Resolve.
func Classify(meeting *Meeting, now time.Time) Status {
	if !meeting.active {
		return StatusCancelled
	}
	switch timingOf(meeting.date, now) {
	case timingPast:
		return StatusEnded
	case timingToday:
		return StatusJoinNow
	default:
		return StatusUpcoming
	}
}
