package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	meetingCommands "github.com/felixgeelhaar/huddle/internal/meetings/application/commands"
	meetingQueries "github.com/felixgeelhaar/huddle/internal/meetings/application/queries"
	meetingServices "github.com/felixgeelhaar/huddle/internal/meetings/application/services"
	meetingsDomain "github.com/felixgeelhaar/huddle/internal/meetings/domain"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)

func localContainer(t *testing.T) *Container {
	t.Helper()
	cfg := &config.Config{
		AppEnv:         "test",
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "huddle.db"),
		LocalMode:      true,
		InboxLifetime:  time.Minute,
		CacheTTL:       time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := NewContainer(context.Background(), cfg, logger, WithClock(sharedDomain.FixedClock(today)))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewContainer_LocalMode(t *testing.T) {
	c := localContainer(t)

	assert.Nil(t, c.RedisClient)
	assert.NotNil(t, c.InProcessEventBus)
	assert.NotNil(t, c.RoomTokens)
	assert.NotNil(t, c.JoinService)
}

func TestNewContainer_ProductionRequiresTransportSecret(t *testing.T) {
	cfg := &config.Config{
		AppEnv:         "production",
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "huddle.db"),
	}

	_, err := NewContainer(context.Background(), cfg, nil)

	assert.ErrorIs(t, err, ErrMissingTransportSecret)
}

func TestContainer_MeetingLifecycle(t *testing.T) {
	ctx := context.Background()
	c := localContainer(t)
	alice := sharedDomain.NewUserID("alice")
	bob := sharedDomain.NewUserID("bob")

	created, err := c.CreateMeetingHandler.Handle(ctx, meetingCommands.CreateMeetingCommand{
		CreatedBy:    alice,
		Name:         "Design review",
		Type:         "direct-invite",
		InvitedUsers: []string{"bob"},
		Date:         "10/18/2026",
	})
	require.NoError(t, err)
	assert.Equal(t, "One on One Meeting Created Successfully", created.Message)

	t.Run("invitation is delivered in process", func(t *testing.T) {
		require.NoError(t, c.DeliverPending(ctx))

		inbox, err := c.NotificationService.List(ctx, bob)
		require.NoError(t, err)
		require.Len(t, inbox, 1)
		assert.Equal(t, "You are invited to Design review on 10/18/2026", inbox[0].Title)
	})

	t.Run("creator and invitee see the meeting", func(t *testing.T) {
		mine, err := c.ListMyMeetingsHandler.Handle(ctx, meetingQueries.ListMyMeetingsQuery{Viewer: alice})
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.True(t, mine[0].Editable)

		visible, err := c.ListVisibleMeetingsHandler.Handle(ctx, meetingQueries.ListVisibleMeetingsQuery{Viewer: bob})
		require.NoError(t, err)
		require.Len(t, visible, 1)
		assert.Equal(t, created.JoinCode, visible[0].JoinCode)
	})

	t.Run("invitee joins with a verifiable token", func(t *testing.T) {
		result, err := c.JoinService.Join(ctx, meetingServices.JoinRequest{JoinCode: created.JoinCode, Requester: bob, DisplayName: "Bob"})
		require.NoError(t, err)
		require.True(t, result.Decision.IsAllowed())

		claims, err := c.RoomTokens.Verify(result.Token)
		require.NoError(t, err)
		assert.Equal(t, created.JoinCode, claims.Room)
		assert.Equal(t, "bob", claims.Subject)
	})

	t.Run("stranger is turned away", func(t *testing.T) {
		result, err := c.JoinService.Join(ctx, meetingServices.JoinRequest{JoinCode: created.JoinCode, Requester: sharedDomain.NewUserID("mallory")})
		require.NoError(t, err)
		assert.Equal(t, meetingsDomain.OutcomeDeniedNotInvited, result.Decision.Outcome)
		assert.Equal(t, "/", result.Redirect)
		assert.Empty(t, result.Token)
	})

	t.Run("cancel notifies the invitee", func(t *testing.T) {
		require.NoError(t, c.CancelMeetingHandler.Handle(ctx, meetingCommands.CancelMeetingCommand{UserID: alice, JoinCode: created.JoinCode}))
		require.NoError(t, c.DeliverPending(ctx))

		inbox, err := c.NotificationService.List(ctx, bob)
		require.NoError(t, err)
		require.Len(t, inbox, 2)
		assert.Equal(t, "Design review was cancelled", inbox[1].Title)

		detail, err := c.GetMeetingHandler.Handle(ctx, meetingQueries.GetMeetingQuery{JoinCode: created.JoinCode, Viewer: bob})
		require.NoError(t, err)
		assert.Equal(t, string(meetingsDomain.StatusCancelled), detail.Status)
	})
}

func TestContainer_HealthAndMetrics(t *testing.T) {
	c := localContainer(t)

	report := c.HealthRegistry().Check(context.Background())
	assert.Equal(t, "healthy", string(report.Status))
	assert.Contains(t, report.Checks, "database")
	assert.Contains(t, report.Checks, "meeting_store_breaker")

	_, err := c.JoinService.Join(context.Background(), meetingServices.JoinRequest{JoinCode: "NOPE00"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `huddle_access_decisions_total{meeting_type="unknown",outcome="not_found"} 1`)
	assert.Contains(t, rec.Body.String(), "huddle_outbox_published_total")
}

func TestContainer_ConsumedEventsAreCounted(t *testing.T) {
	c := localContainer(t)
	ctx := context.Background()

	_, err := c.CreateMeetingHandler.Handle(ctx, meetingCommands.CreateMeetingCommand{
		CreatedBy:    sharedDomain.NewUserID("alice"),
		Name:         "Standup",
		Type:         string(meetingsDomain.TypeGroupInvite),
		InvitedUsers: []string{"bob"},
		Date:         "2026-10-20",
	})
	require.NoError(t, err)
	require.NoError(t, c.DeliverPending(ctx))

	rec := httptest.NewRecorder()
	c.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `huddle_events_consumed_total{result="ok",routing_key="meetings.meeting.created"} 1`)
}
