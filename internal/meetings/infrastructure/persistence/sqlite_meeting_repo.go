package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const sqliteMeetingColumns = `id, join_code, name, meeting_type, created_by, invited_users,
	meeting_date, max_users, active, version, created_at, updated_at`

// SQLiteMeetingRepository implements domain.Repository using SQLite.
// Invitees are stored as a JSON array.
type SQLiteMeetingRepository struct {
	conn database.Connection
}

// NewSQLiteMeetingRepository creates a new SQLite meeting repository.
func NewSQLiteMeetingRepository(conn database.Connection) *SQLiteMeetingRepository {
	return &SQLiteMeetingRepository{conn: conn}
}

func (r *SQLiteMeetingRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a meeting.
func (r *SQLiteMeetingRepository) Save(ctx context.Context, meeting *domain.Meeting) error {
	invitees, err := json.Marshal(sharedDomain.UserIDStrings(meeting.InvitedUsers()))
	if err != nil {
		return err
	}

	_, err = r.exec(ctx).Exec(ctx, `
		INSERT INTO meetings (`+sqliteMeetingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			invited_users = excluded.invited_users,
			meeting_date = excluded.meeting_date,
			max_users = excluded.max_users,
			active = excluded.active,
			version = excluded.version,
			updated_at = excluded.updated_at`,
		meeting.ID().String(),
		meeting.JoinCode(),
		meeting.Name(),
		string(meeting.Type()),
		meeting.CreatedBy().String(),
		string(invitees),
		meeting.Date().ISO(),
		meeting.MaxUsers(),
		meeting.IsActive(),
		meeting.Version(),
		database.FormatTimestamp(meeting.CreatedAt()),
		database.FormatTimestamp(meeting.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save meeting: %w", err)
	}
	return nil
}

// FindByID finds a meeting by its ID.
func (r *SQLiteMeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	row := r.exec(ctx).QueryRow(ctx, `SELECT `+sqliteMeetingColumns+` FROM meetings WHERE id = ?`, id.String())
	return findOne(row, scanSQLiteMeeting)
}

// FindByJoinCode finds a meeting by its join code.
func (r *SQLiteMeetingRepository) FindByJoinCode(ctx context.Context, joinCode string) (*domain.Meeting, error) {
	row := r.exec(ctx).QueryRow(ctx, `SELECT `+sqliteMeetingColumns+` FROM meetings WHERE join_code = ?`, joinCode)
	return findOne(row, scanSQLiteMeeting)
}

// FindByCreator returns the creator's meetings ordered by date.
func (r *SQLiteMeetingRepository) FindByCreator(ctx context.Context, createdBy sharedDomain.UserID) ([]*domain.Meeting, error) {
	rows, err := r.exec(ctx).Query(ctx, `
		SELECT `+sqliteMeetingColumns+`
		FROM meetings
		WHERE created_by = ?
		ORDER BY meeting_date, created_at`,
		createdBy.String(),
	)
	if err != nil {
		return nil, err
	}
	return findMany(rows, scanSQLiteMeeting)
}

// FindVisibleTo returns meetings the viewer created, open meetings and
// meetings listing the viewer as an invitee.
func (r *SQLiteMeetingRepository) FindVisibleTo(ctx context.Context, viewer sharedDomain.UserID) ([]*domain.Meeting, error) {
	rows, err := r.exec(ctx).Query(ctx, `
		SELECT `+sqliteMeetingColumns+`
		FROM meetings
		WHERE meeting_type = 'open'
		   OR (? <> '' AND (
		       created_by = ?
		       OR EXISTS (SELECT 1 FROM json_each(meetings.invited_users) WHERE json_each.value = ?)))
		ORDER BY meeting_date, created_at`,
		viewer.String(), viewer.String(), viewer.String(),
	)
	if err != nil {
		return nil, err
	}
	return findMany(rows, scanSQLiteMeeting)
}

func scanSQLiteMeeting(row database.Row) (meetingRow, error) {
	var (
		r        meetingRow
		invitees string
	)
	err := row.Scan(
		&r.ID, &r.JoinCode, &r.Name, &r.Type, &r.CreatedBy, &invitees,
		&r.Date, &r.MaxUsers, &r.Active, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return meetingRow{}, err
	}
	if invitees != "" {
		if err := json.Unmarshal([]byte(invitees), &r.InvitedUsers); err != nil {
			return meetingRow{}, fmt.Errorf("decode invitees of %s: %w", r.JoinCode, err)
		}
	}
	return r, nil
}
