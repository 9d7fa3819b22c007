package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	meetingQueries "github.com/felixgeelhaar/huddle/internal/meetings/application/queries"
	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers MCP resources that expose huddle data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	if deps.App == nil {
		return fmt.Errorf("app is required")
	}
	t := &tools{app: deps.App}

	srv.Resource("huddle://meetings/mine").
		Name("My meetings").
		Description("Meetings created by the current user").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			meetings, err := t.listMyMeetings(ctx, meetingListInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, meetings)
		})

	srv.Resource("huddle://meetings/visible").
		Name("Visible meetings").
		Description("Open meetings plus meetings the current user created or is invited to").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			meetings, err := t.listVisibleMeetings(ctx, meetingListInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, meetings)
		})

	srv.Resource("huddle://meetings/joinable").
		Name("Joinable meetings").
		Description("Visible meetings whose room is open today").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			meetings, err := t.listVisibleMeetings(ctx, meetingListInput{Status: "join_now"})
			if err != nil {
				return nil, err
			}
			if meetings == nil {
				meetings = []meetingQueries.MeetingDTO{}
			}
			return jsonResource(uri, meetings)
		})

	srv.Resource("huddle://notifications").
		Name("Notifications").
		Description("Pending notifications for the current user").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			items, err := t.listNotifications(ctx, notificationListInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, items)
		})

	srv.Resource("huddle://user/identity").
		Name("Identity").
		Description("The identity this server acts as").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return jsonResource(uri, map[string]any{
				"user":         t.app.CurrentUser.String(),
				"display_name": t.app.DisplayName,
				"anonymous":    t.app.CurrentUser.IsAnonymous(),
			})
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
