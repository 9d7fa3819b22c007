package application

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/huddle/internal/notifications/domain"
	"github.com/felixgeelhaar/huddle/internal/notifications/infrastructure"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	alice := sharedDomain.NewUserID("alice")

	t.Run("notify and list", func(t *testing.T) {
		service := NewService(infrastructure.NewMemoryInbox(0))

		first, err := service.Notify(ctx, alice, "Saved", "success")
		require.NoError(t, err)
		second, err := service.Notify(ctx, alice, "Heads up", "primary")
		require.NoError(t, err)

		list, err := service.List(ctx, alice)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)
		assert.Equal(t, domain.SeverityInfo, list[1].Severity)
	})

	t.Run("rejects unknown severity", func(t *testing.T) {
		service := NewService(infrastructure.NewMemoryInbox(0))

		_, err := service.Notify(ctx, alice, "Oops", "critical")

		assert.ErrorIs(t, err, domain.ErrInvalidSeverity)
	})

	t.Run("dismiss is idempotent", func(t *testing.T) {
		service := NewService(infrastructure.NewMemoryInbox(0))
		n, err := service.Notify(ctx, alice, "Saved", "success")
		require.NoError(t, err)

		require.NoError(t, service.Dismiss(ctx, alice, n.ID.String()))
		require.NoError(t, service.Dismiss(ctx, alice, n.ID.String()))

		list, err := service.List(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("dismiss rejects malformed ids", func(t *testing.T) {
		service := NewService(infrastructure.NewMemoryInbox(0))

		err := service.Dismiss(ctx, alice, "not-a-uuid")

		assert.ErrorIs(t, err, ErrInvalidNotificationID)
	})

	t.Run("dismiss all", func(t *testing.T) {
		service := NewService(infrastructure.NewMemoryInbox(0))
		for _, title := range []string{"one", "two", "three"} {
			_, err := service.Notify(ctx, alice, title, "info")
			require.NoError(t, err)
		}
		_, err := service.Notify(ctx, sharedDomain.NewUserID("bob"), "other", "info")
		require.NoError(t, err)

		removed, err := service.DismissAll(ctx, alice)

		require.NoError(t, err)
		assert.Equal(t, 3, removed)
		bobs, err := service.List(ctx, sharedDomain.NewUserID("bob"))
		require.NoError(t, err)
		assert.Len(t, bobs, 1)
	})
}
