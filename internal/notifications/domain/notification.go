package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidSeverity = errors.New("invalid notification severity")
	ErrEmptyTitle      = errors.New("notification title cannot be empty")
	ErrAnonymousOwner  = errors.New("anonymous requesters have no shared inbox")
)

// Severity controls how a notification is presented.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// ParseSeverity parses a severity name. "primary" is accepted as info.
func ParseSeverity(value string) (Severity, error) {
	switch s := Severity(strings.ToLower(strings.TrimSpace(value))); s {
	case SeveritySuccess, SeverityInfo, SeverityWarning, SeverityDanger:
		return s, nil
	case "primary":
		return SeverityInfo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, value)
	}
}

// IsValid checks if the severity is supported.
func (s Severity) IsValid() bool {
	switch s {
	case SeveritySuccess, SeverityInfo, SeverityWarning, SeverityDanger:
		return true
	default:
		return false
	}
}

// Notification is a short-lived message shown to one session.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification creates a notification with a time-ordered ID.
func NewNotification(title string, severity Severity) (Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Notification{}, ErrEmptyTitle
	}
	if !severity.IsValid() {
		return Notification{}, ErrInvalidSeverity
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Notification{}, fmt.Errorf("generate notification id: %w", err)
	}
	return Notification{
		ID:        id,
		Title:     title,
		Severity:  severity,
		CreatedAt: time.Now().UTC(),
	}, nil
}
