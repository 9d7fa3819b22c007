package cache

import (
	"time"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/google/uuid"
)

// snapshot is the cached form of a meeting.
type snapshot struct {
	ID           uuid.UUID `json:"id"`
	JoinCode     string    `json:"join_code"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	CreatedBy    string    `json:"created_by"`
	InvitedUsers []string  `json:"invited_users"`
	Date         string    `json:"date"`
	MaxUsers     int       `json:"max_users"`
	Active       bool      `json:"active"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func snapshotOf(m *domain.Meeting) snapshot {
	return snapshot{
		ID:           m.ID(),
		JoinCode:     m.JoinCode(),
		Name:         m.Name(),
		Type:         string(m.Type()),
		CreatedBy:    m.CreatedBy().String(),
		InvitedUsers: sharedDomain.UserIDStrings(m.InvitedUsers()),
		Date:         m.Date().ISO(),
		MaxUsers:     m.MaxUsers(),
		Active:       m.IsActive(),
		Version:      m.Version(),
		CreatedAt:    m.CreatedAt(),
		UpdatedAt:    m.UpdatedAt(),
	}
}

func (s snapshot) toDomain() (*domain.Meeting, error) {
	date, err := domain.ParseDate(s.Date)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateMeeting(
		s.ID,
		s.JoinCode,
		s.Name,
		domain.Type(s.Type),
		sharedDomain.NewUserID(s.CreatedBy),
		sharedDomain.NewUserIDs(s.InvitedUsers),
		date,
		s.MaxUsers,
		s.Active,
		s.CreatedAt,
		s.UpdatedAt,
		s.Version,
	), nil
}
