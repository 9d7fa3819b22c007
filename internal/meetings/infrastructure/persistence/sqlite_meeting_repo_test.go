package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/felixgeelhaar/huddle/internal/meetings/infrastructure/persistence"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSQLite creates an in-memory SQLite database with the schema applied.
func setupSQLite(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := database.NewConnection(ctx, database.Config{Driver: database.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}

func TestSQLiteMeetingRepository(t *testing.T) {
	conn := setupSQLite(t)
	testRepository(t, persistence.NewSQLiteMeetingRepository(conn), conn)
}

func TestSQLiteMeetingRepository_CorruptInvitees(t *testing.T) {
	ctx := context.Background()
	conn := setupSQLite(t)
	repo := persistence.NewSQLiteMeetingRepository(conn)

	_, err := conn.Exec(ctx, `
		INSERT INTO meetings (id, join_code, name, meeting_type, created_by, invited_users, meeting_date, created_at, updated_at)
		VALUES ('6f1c3a52-0d5e-4b8c-9a11-2f3d4e5f6a7b', 'Corrupt1', 'Broken', 'group-invite', 'alice', 'not json', '2026-10-18',
		        '2026-10-18T09:00:00Z', '2026-10-18T09:00:00Z')`)
	require.NoError(t, err)

	found, err := repo.FindByJoinCode(ctx, "Corrupt1")

	assert.Nil(t, found)
	assert.ErrorContains(t, err, "decode invitees")
}

func TestSQLiteMeetingRepository_StoredTimestampsReadBack(t *testing.T) {
	ctx := context.Background()
	conn := setupSQLite(t)
	repo := persistence.NewSQLiteMeetingRepository(conn)

	meeting := newMeeting(t, "Stamped1", domain.TypeOpen, "alice", nil, today)
	require.NoError(t, repo.Save(ctx, meeting))

	var createdAt, updatedAt string
	require.NoError(t, conn.QueryRow(ctx,
		`SELECT created_at, updated_at FROM meetings WHERE join_code = ?`, "Stamped1",
	).Scan(&createdAt, &updatedAt))
	assert.Equal(t, database.FormatTimestamp(meeting.CreatedAt()), createdAt)
	assert.Equal(t, database.FormatTimestamp(meeting.UpdatedAt()), updatedAt)

	found, err := repo.FindByJoinCode(ctx, "Stamped1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, meeting.CreatedAt().Equal(found.CreatedAt()))

	decision := domain.Resolve(found, sharedDomain.Anonymous, time.Now())
	assert.Equal(t, domain.OutcomeAllowed, decision.Outcome)
}
