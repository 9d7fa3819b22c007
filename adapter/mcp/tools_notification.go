package mcp

import (
	"context"
	"errors"

	notificationsDomain "github.com/felixgeelhaar/huddle/internal/notifications/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type notificationListInput struct{}

type notificationDismissInput struct {
	ID  string `json:"id,omitempty"`
	All bool   `json:"all,omitempty"`
}

type notificationDismissOutput struct {
	Dismissed int `json:"dismissed"`
}

func registerNotificationTools(srv *mcp.Server, t *tools) {
	srv.Tool("notification.list").
		Description("List the current user's pending notifications, oldest first").
		Handler(t.listNotifications)

	srv.Tool("notification.dismiss").
		Description("Dismiss one notification by id, or all of them with all=true").
		Handler(t.dismissNotifications)
}

func (t *tools) listNotifications(ctx context.Context, _ notificationListInput) ([]notificationsDomain.Notification, error) {
	if err := t.app.RequireIdentity(); err != nil {
		return nil, err
	}
	items, err := t.app.NotificationService.List(ctx, t.app.CurrentUser)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []notificationsDomain.Notification{}
	}
	return items, nil
}

func (t *tools) dismissNotifications(ctx context.Context, input notificationDismissInput) (*notificationDismissOutput, error) {
	if err := t.app.RequireIdentity(); err != nil {
		return nil, err
	}

	if input.All {
		n, err := t.app.NotificationService.DismissAll(ctx, t.app.CurrentUser)
		if err != nil {
			return nil, err
		}
		return &notificationDismissOutput{Dismissed: n}, nil
	}

	if input.ID == "" {
		return nil, errors.New("id is required unless all is set")
	}
	if err := t.app.NotificationService.Dismiss(ctx, t.app.CurrentUser, input.ID); err != nil {
		return nil, err
	}
	return &notificationDismissOutput{Dismissed: 1}, nil
}
