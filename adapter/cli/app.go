package cli

import (
	"context"
	"errors"

	internalApp "github.com/felixgeelhaar/huddle/internal/app"
	meetingCommands "github.com/felixgeelhaar/huddle/internal/meetings/application/commands"
	meetingQueries "github.com/felixgeelhaar/huddle/internal/meetings/application/queries"
	meetingServices "github.com/felixgeelhaar/huddle/internal/meetings/application/services"
	notificationsApp "github.com/felixgeelhaar/huddle/internal/notifications/application"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
)

// ErrNotConfigured is returned when a command runs without a store.
var ErrNotConfigured = errors.New("huddle is not initialized; check DATABASE_URL or HUDDLE_SQLITE_PATH")

// ErrIdentityRequired is returned by commands that act on behalf of a user.
var ErrIdentityRequired = errors.New("this command requires an identity; set HUDDLE_USER or pass --as")

// App holds the CLI application dependencies.
type App struct {
	// Meeting handlers
	CreateMeetingHandler       *meetingCommands.CreateMeetingHandler
	UpdateMeetingHandler       *meetingCommands.UpdateMeetingHandler
	CancelMeetingHandler       *meetingCommands.CancelMeetingHandler
	GetMeetingHandler          *meetingQueries.GetMeetingHandler
	ListMyMeetingsHandler      *meetingQueries.ListMyMeetingsHandler
	ListVisibleMeetingsHandler *meetingQueries.ListVisibleMeetingsHandler
	JoinService                *meetingServices.JoinService

	// Notifications
	NotificationService *notificationsApp.Service

	// Caller identity. The zero value is anonymous.
	CurrentUser sharedDomain.UserID
	DisplayName string

	deliver func(ctx context.Context) error
}

// NewApp creates a CLI application from a wired container.
func NewApp(container *internalApp.Container) *App {
	return &App{
		CreateMeetingHandler:       container.CreateMeetingHandler,
		UpdateMeetingHandler:       container.UpdateMeetingHandler,
		CancelMeetingHandler:       container.CancelMeetingHandler,
		GetMeetingHandler:          container.GetMeetingHandler,
		ListMyMeetingsHandler:      container.ListMyMeetingsHandler,
		ListVisibleMeetingsHandler: container.ListVisibleMeetingsHandler,
		JoinService:                container.JoinService,
		NotificationService:        container.NotificationService,
		deliver:                    container.DeliverPending,
	}
}

// SetCurrentUser updates the caller identity.
func (a *App) SetCurrentUser(user sharedDomain.UserID, displayName string) {
	a.CurrentUser = user
	a.DisplayName = displayName
}

// RequireIdentity fails for anonymous callers.
func (a *App) RequireIdentity() error {
	if a.CurrentUser.IsAnonymous() {
		return ErrIdentityRequired
	}
	return nil
}

// AfterCommand delivers events queued by the command when no worker is
// running. Failures stay in the outbox for the next run.
func (a *App) AfterCommand(ctx context.Context) {
	if a.deliver == nil {
		return
	}
	if err := a.deliver(ctx); err != nil {
		Logger().WarnContext(ctx, "event delivery deferred", "error", err)
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the application or ErrNotConfigured.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotConfigured
	}
	return app, nil
}
