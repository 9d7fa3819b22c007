package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Invitees and the date are read back as text so they decode the same way
// whichever wire format the pool negotiates.
const postgresMeetingColumns = `id, join_code, name, meeting_type, created_by, invited_users::text,
	meeting_date::text, max_users, active, version, created_at, updated_at`

// PostgresMeetingRepository implements domain.Repository using PostgreSQL.
type PostgresMeetingRepository struct {
	conn database.Connection
}

// NewPostgresMeetingRepository creates a new PostgreSQL meeting repository.
func NewPostgresMeetingRepository(conn database.Connection) *PostgresMeetingRepository {
	return &PostgresMeetingRepository{conn: conn}
}

func (r *PostgresMeetingRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a meeting.
func (r *PostgresMeetingRepository) Save(ctx context.Context, meeting *domain.Meeting) error {
	date := meeting.Date()
	_, err := r.exec(ctx).Exec(ctx, `
		INSERT INTO meetings (
			id, join_code, name, meeting_type, created_by, invited_users,
			meeting_date, max_users, active, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, CAST($6::text AS text[]), $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			invited_users = EXCLUDED.invited_users,
			meeting_date = EXCLUDED.meeting_date,
			max_users = EXCLUDED.max_users,
			active = EXCLUDED.active,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at`,
		meeting.ID(),
		meeting.JoinCode(),
		meeting.Name(),
		string(meeting.Type()),
		meeting.CreatedBy().String(),
		pq.Array(sharedDomain.UserIDStrings(meeting.InvitedUsers())),
		time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		meeting.MaxUsers(),
		meeting.IsActive(),
		meeting.Version(),
		meeting.CreatedAt().UTC(),
		meeting.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save meeting: %w", err)
	}
	return nil
}

// FindByID finds a meeting by its ID.
func (r *PostgresMeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	row := r.exec(ctx).QueryRow(ctx, `SELECT `+postgresMeetingColumns+` FROM meetings WHERE id = $1`, id)
	return findOne(row, scanPostgresMeeting)
}

// FindByJoinCode finds a meeting by its join code.
func (r *PostgresMeetingRepository) FindByJoinCode(ctx context.Context, joinCode string) (*domain.Meeting, error) {
	row := r.exec(ctx).QueryRow(ctx, `SELECT `+postgresMeetingColumns+` FROM meetings WHERE join_code = $1`, joinCode)
	return findOne(row, scanPostgresMeeting)
}

// FindByCreator returns the creator's meetings ordered by date.
func (r *PostgresMeetingRepository) FindByCreator(ctx context.Context, createdBy sharedDomain.UserID) ([]*domain.Meeting, error) {
	rows, err := r.exec(ctx).Query(ctx, `
		SELECT `+postgresMeetingColumns+`
		FROM meetings
		WHERE created_by = $1
		ORDER BY meeting_date, created_at`,
		createdBy.String(),
	)
	if err != nil {
		return nil, err
	}
	return findMany(rows, scanPostgresMeeting)
}

// FindVisibleTo returns meetings the viewer created, open meetings and
// meetings listing the viewer as an invitee.
func (r *PostgresMeetingRepository) FindVisibleTo(ctx context.Context, viewer sharedDomain.UserID) ([]*domain.Meeting, error) {
	rows, err := r.exec(ctx).Query(ctx, `
		SELECT `+postgresMeetingColumns+`
		FROM meetings
		WHERE meeting_type = 'open'
		   OR ($1 <> '' AND (created_by = $1 OR $1 = ANY(invited_users)))
		ORDER BY meeting_date, created_at`,
		viewer.String(),
	)
	if err != nil {
		return nil, err
	}
	return findMany(rows, scanPostgresMeeting)
}

func scanPostgresMeeting(row database.Row) (meetingRow, error) {
	var r meetingRow
	err := row.Scan(
		&r.ID, &r.JoinCode, &r.Name, &r.Type, &r.CreatedBy, pq.Array(&r.InvitedUsers),
		&r.Date, &r.MaxUsers, &r.Active, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}
