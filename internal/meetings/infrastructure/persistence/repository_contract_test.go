package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = domain.DateOf(time.Now())

func newMeeting(t *testing.T, joinCode string, meetingType domain.Type, createdBy string, invitees []string, date domain.Date) *domain.Meeting {
	t.Helper()
	meeting, err := domain.NewMeeting(
		sharedDomain.NewUserID(createdBy),
		joinCode,
		"Meeting "+joinCode,
		meetingType,
		sharedDomain.NewUserIDs(invitees),
		date,
		0,
	)
	require.NoError(t, err)
	return meeting
}

func joinCodes(meetings []*domain.Meeting) []string {
	codes := make([]string, 0, len(meetings))
	for _, m := range meetings {
		codes = append(codes, m.JoinCode())
	}
	return codes
}

// testRepository runs the behaviour every domain.Repository must share.
func testRepository(t *testing.T, repo domain.Repository, conn database.Connection) {
	ctx := context.Background()

	t.Run("save and find round trip", func(t *testing.T) {
		meeting := newMeeting(t, "RoundTr1", domain.TypeGroupInvite, "alice", []string{"bob", "carol"}, today.AddDays(2))
		require.NoError(t, repo.Save(ctx, meeting))

		found, err := repo.FindByJoinCode(ctx, "RoundTr1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, meeting.ID(), found.ID())
		assert.Equal(t, "Meeting RoundTr1", found.Name())
		assert.Equal(t, domain.TypeGroupInvite, found.Type())
		assert.Equal(t, "alice", found.CreatedBy().String())
		assert.Equal(t, []string{"bob", "carol"}, sharedDomain.UserIDStrings(found.InvitedUsers()))
		assert.Equal(t, today.AddDays(2), found.Date())
		assert.Equal(t, 50, found.MaxUsers())
		assert.True(t, found.IsActive())
		assert.WithinDuration(t, meeting.CreatedAt(), found.CreatedAt(), time.Second)

		byID, err := repo.FindByID(ctx, meeting.ID())
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, "RoundTr1", byID.JoinCode())
	})

	t.Run("missing meetings are nil", func(t *testing.T) {
		found, err := repo.FindByJoinCode(ctx, "Missing1")
		require.NoError(t, err)
		assert.Nil(t, found)

		found, err = repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("save updates an existing meeting", func(t *testing.T) {
		meeting := newMeeting(t, "Update01", domain.TypeDirectInvite, "alice", []string{"bob"}, today)
		require.NoError(t, repo.Save(ctx, meeting))

		now := time.Now()
		require.NoError(t, meeting.Rename("Renamed", now))
		require.NoError(t, meeting.SetInvitees(sharedDomain.NewUserIDs([]string{"dave"}), now))
		meeting.Cancel()
		require.NoError(t, repo.Save(ctx, meeting))

		found, err := repo.FindByJoinCode(ctx, "Update01")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Renamed", found.Name())
		assert.Equal(t, []string{"dave"}, sharedDomain.UserIDStrings(found.InvitedUsers()))
		assert.False(t, found.IsActive())
		assert.Equal(t, meeting.Version(), found.Version())
	})

	t.Run("join codes are unique", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newMeeting(t, "Unique01", domain.TypeOpen, "alice", nil, today)))
		err := repo.Save(ctx, newMeeting(t, "Unique01", domain.TypeOpen, "bob", nil, today))
		assert.Error(t, err)
	})

	t.Run("visibility", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newMeeting(t, "VisOpen1", domain.TypeOpen, "zed", nil, today.AddDays(1))))
		require.NoError(t, repo.Save(ctx, newMeeting(t, "VisGrp01", domain.TypeGroupInvite, "zed", []string{"vera", "walt"}, today.AddDays(2))))
		require.NoError(t, repo.Save(ctx, newMeeting(t, "VisDm001", domain.TypeDirectInvite, "vera", []string{"zed"}, today.AddDays(3))))
		require.NoError(t, repo.Save(ctx, newMeeting(t, "VisHide1", domain.TypeGroupInvite, "zed", []string{"walt"}, today.AddDays(4))))

		visible, err := repo.FindVisibleTo(ctx, sharedDomain.NewUserID("vera"))
		require.NoError(t, err)
		codes := joinCodes(visible)
		assert.Contains(t, codes, "VisOpen1")
		assert.Contains(t, codes, "VisGrp01")
		assert.Contains(t, codes, "VisDm001")
		assert.NotContains(t, codes, "VisHide1")

		anonymous, err := repo.FindVisibleTo(ctx, sharedDomain.Anonymous)
		require.NoError(t, err)
		for _, m := range anonymous {
			assert.Equal(t, domain.TypeOpen, m.Type(), m.JoinCode())
		}

		mine, err := repo.FindByCreator(ctx, sharedDomain.NewUserID("zed"))
		require.NoError(t, err)
		assert.Equal(t, []string{"VisOpen1", "VisGrp01", "VisHide1"}, joinCodes(mine))
	})

	t.Run("saves join the caller's transaction", func(t *testing.T) {
		uow := database.NewUnitOfWork(conn)
		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)

		require.NoError(t, repo.Save(txCtx, newMeeting(t, "Rollbk01", domain.TypeOpen, "alice", nil, today)))
		require.NoError(t, uow.Rollback(txCtx))

		found, err := repo.FindByJoinCode(ctx, "Rollbk01")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
