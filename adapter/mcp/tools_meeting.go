package mcp

import (
	"context"
	"errors"
	"time"

	meetingCommands "github.com/felixgeelhaar/huddle/internal/meetings/application/commands"
	meetingQueries "github.com/felixgeelhaar/huddle/internal/meetings/application/queries"
	meetingServices "github.com/felixgeelhaar/huddle/internal/meetings/application/services"
	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type meetingCreateInput struct {
	Name         string   `json:"name" jsonschema:"required"`
	Type         string   `json:"type,omitempty"`
	InvitedUsers []string `json:"invited_users,omitempty"`
	Date         string   `json:"date,omitempty"`
	MaxUsers     int      `json:"max_users,omitempty"`
}

type meetingCreateOutput struct {
	ID       string `json:"id"`
	JoinCode string `json:"join_code"`
	Message  string `json:"message"`
}

type meetingListInput struct {
	Status string `json:"status,omitempty"`
}

type meetingCodeInput struct {
	JoinCode string `json:"join_code" jsonschema:"required"`
}

type meetingEditInput struct {
	JoinCode     string    `json:"join_code" jsonschema:"required"`
	Name         *string   `json:"name,omitempty"`
	Date         *string   `json:"date,omitempty"`
	InvitedUsers *[]string `json:"invited_users,omitempty"`
	MaxUsers     *int      `json:"max_users,omitempty"`
}

type meetingEditOutput struct {
	ChangedFields []string `json:"changed_fields"`
	Message       string   `json:"message"`
}

type meetingJoinInput struct {
	JoinCode    string `json:"join_code" jsonschema:"required"`
	DisplayName string `json:"display_name,omitempty"`
}

type meetingJoinOutput struct {
	Allowed     bool   `json:"allowed"`
	Outcome     string `json:"outcome"`
	Room        string `json:"room,omitempty"`
	Identity    string `json:"identity,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Token       string `json:"token,omitempty"`
	Message     string `json:"message,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Redirect    string `json:"redirect,omitempty"`
}

func registerMeetingTools(srv *mcp.Server, t *tools) {
	srv.Tool("meeting.create").
		Description("Create a meeting (type: open, group-invite or direct-invite) and return its join code").
		Handler(t.createMeeting)

	srv.Tool("meeting.list").
		Description("List meetings created by the current user, optionally filtered by status").
		Handler(t.listMyMeetings)

	srv.Tool("meeting.all").
		Description("List every meeting visible to the current user").
		Handler(t.listVisibleMeetings)

	srv.Tool("meeting.show").
		Description("Show a meeting and the current user's access to it").
		Handler(t.showMeeting)

	srv.Tool("meeting.edit").
		Description("Edit a meeting created by the current user; omitted fields are unchanged").
		Handler(t.editMeeting)

	srv.Tool("meeting.cancel").
		Description("Cancel a meeting created by the current user").
		Handler(t.cancelMeeting)

	srv.Tool("meeting.join").
		Description("Ask to enter a meeting room; returns a room token when allowed").
		Handler(t.joinMeeting)
}

func (t *tools) createMeeting(ctx context.Context, input meetingCreateInput) (*meetingCreateOutput, error) {
	if err := t.app.RequireIdentity(); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	if input.Type == "" {
		input.Type = string(domain.TypeOpen)
	}
	if input.Date == "" {
		input.Date = domain.DateOf(time.Now()).ISO()
	}

	result, err := t.app.CreateMeetingHandler.Handle(ctx, meetingCommands.CreateMeetingCommand{
		CreatedBy:    t.app.CurrentUser,
		Name:         input.Name,
		Type:         input.Type,
		InvitedUsers: input.InvitedUsers,
		Date:         input.Date,
		MaxUsers:     input.MaxUsers,
	})
	if err != nil {
		return nil, err
	}
	t.afterWrite(ctx)

	return &meetingCreateOutput{
		ID:       result.MeetingID.String(),
		JoinCode: result.JoinCode,
		Message:  result.Message,
	}, nil
}

func (t *tools) listMyMeetings(ctx context.Context, input meetingListInput) ([]meetingQueries.MeetingDTO, error) {
	status, err := parseOptionalStatus(input.Status)
	if err != nil {
		return nil, err
	}
	return t.app.ListMyMeetingsHandler.Handle(ctx, meetingQueries.ListMyMeetingsQuery{
		Viewer: t.app.CurrentUser,
		Status: status,
	})
}

func (t *tools) listVisibleMeetings(ctx context.Context, input meetingListInput) ([]meetingQueries.MeetingDTO, error) {
	status, err := parseOptionalStatus(input.Status)
	if err != nil {
		return nil, err
	}
	return t.app.ListVisibleMeetingsHandler.Handle(ctx, meetingQueries.ListVisibleMeetingsQuery{
		Viewer: t.app.CurrentUser,
		Status: status,
	})
}

func (t *tools) showMeeting(ctx context.Context, input meetingCodeInput) (*meetingQueries.MeetingDetailDTO, error) {
	code, err := requireJoinCode(input.JoinCode)
	if err != nil {
		return nil, err
	}
	return t.app.GetMeetingHandler.Handle(ctx, meetingQueries.GetMeetingQuery{
		JoinCode: code,
		Viewer:   t.app.CurrentUser,
	})
}

func (t *tools) editMeeting(ctx context.Context, input meetingEditInput) (*meetingEditOutput, error) {
	if err := t.app.RequireIdentity(); err != nil {
		return nil, err
	}
	code, err := requireJoinCode(input.JoinCode)
	if err != nil {
		return nil, err
	}

	result, err := t.app.UpdateMeetingHandler.Handle(ctx, meetingCommands.UpdateMeetingCommand{
		UserID:       t.app.CurrentUser,
		JoinCode:     code,
		Name:         input.Name,
		Date:         input.Date,
		InvitedUsers: input.InvitedUsers,
		MaxUsers:     input.MaxUsers,
	})
	if err != nil {
		return nil, err
	}
	t.afterWrite(ctx)

	out := &meetingEditOutput{ChangedFields: result.ChangedFields, Message: result.Message}
	if out.ChangedFields == nil {
		out.ChangedFields = []string{}
	}
	return out, nil
}

func (t *tools) cancelMeeting(ctx context.Context, input meetingCodeInput) (map[string]any, error) {
	if err := t.app.RequireIdentity(); err != nil {
		return nil, err
	}
	code, err := requireJoinCode(input.JoinCode)
	if err != nil {
		return nil, err
	}

	if err := t.app.CancelMeetingHandler.Handle(ctx, meetingCommands.CancelMeetingCommand{
		UserID:   t.app.CurrentUser,
		JoinCode: code,
	}); err != nil {
		return nil, err
	}
	t.afterWrite(ctx)

	return map[string]any{"join_code": code, "message": meetingCommands.CancelledMessage}, nil
}

// joinMeeting reports denials in the result rather than as a tool error so
// the client can show the reason and follow the redirect.
func (t *tools) joinMeeting(ctx context.Context, input meetingJoinInput) (*meetingJoinOutput, error) {
	code, err := requireJoinCode(input.JoinCode)
	if err != nil {
		return nil, err
	}
	name := input.DisplayName
	if name == "" {
		name = t.app.DisplayName
	}

	result, err := t.app.JoinService.Join(ctx, meetingServices.JoinRequest{
		JoinCode:    code,
		Requester:   t.app.CurrentUser,
		DisplayName: name,
	})
	if err != nil {
		return nil, err
	}

	out := &meetingJoinOutput{
		Allowed:     result.Decision.IsAllowed(),
		Outcome:     string(result.Decision.Outcome),
		Room:        result.Room,
		Identity:    result.Identity,
		DisplayName: result.DisplayName,
		Token:       result.Token,
		Redirect:    result.Redirect,
	}
	if result.Notification != nil {
		out.Message = result.Notification.Title
		out.Severity = string(result.Notification.Severity)
	}
	return out, nil
}
