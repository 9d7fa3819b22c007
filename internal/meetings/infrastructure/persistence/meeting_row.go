package persistence

import (
	"fmt"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// meetingRow is a meetings table row after driver-specific decoding.
type meetingRow struct {
	ID           uuid.UUID
	JoinCode     string
	Name         string
	Type         string
	CreatedBy    string
	InvitedUsers []string
	Date         string
	MaxUsers     int
	Active       bool
	Version      int
	CreatedAt    database.Timestamp
	UpdatedAt    database.Timestamp
}

func (r meetingRow) toDomain() (*domain.Meeting, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("meeting %s: %w", r.JoinCode, err)
	}
	return domain.RehydrateMeeting(
		r.ID,
		r.JoinCode,
		r.Name,
		domain.Type(r.Type),
		sharedDomain.NewUserID(r.CreatedBy),
		sharedDomain.NewUserIDs(r.InvitedUsers),
		date,
		r.MaxUsers,
		r.Active,
		r.CreatedAt.Time,
		r.UpdatedAt.Time,
		r.Version,
	), nil
}

// scanFunc decodes one row. The two drivers store invitees differently.
type scanFunc func(row database.Row) (meetingRow, error)

func findOne(row database.Row, scan scanFunc) (*domain.Meeting, error) {
	r, err := scan(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain()
}

func findMany(rows database.Rows, scan scanFunc) ([]*domain.Meeting, error) {
	defer rows.Close()

	meetings := make([]*domain.Meeting, 0)
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, err
		}
		meeting, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	return meetings, rows.Err()
}
