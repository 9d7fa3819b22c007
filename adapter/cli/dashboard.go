package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	meetingQueries "github.com/felixgeelhaar/huddle/internal/meetings/application/queries"
	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	notificationsDomain "github.com/felixgeelhaar/huddle/internal/notifications/domain"
	"github.com/spf13/cobra"
)

// maxUpcoming caps the upcoming section of the dashboard.
const maxUpcoming = 5

type dashboard struct {
	Date          string                             `json:"date" yaml:"date"`
	JoinNow       []meetingQueries.MeetingDTO        `json:"join_now" yaml:"join_now"`
	Upcoming      []meetingQueries.MeetingDTO        `json:"upcoming" yaml:"upcoming"`
	Notifications []notificationsDomain.Notification `json:"notifications" yaml:"notifications"`
}

var dashboardCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's dashboard",
	Long: `Display a combined view of your day:
- meetings you can join right now
- your next upcoming meetings
- pending notifications

Examples:
  huddle today
  huddle today --as bob -o json`,
	Aliases: []string{"dashboard", "dash", "now"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		joinNow, err := app.ListVisibleMeetingsHandler.Handle(ctx, meetingQueries.ListVisibleMeetingsQuery{
			Viewer: app.CurrentUser,
			Status: domain.StatusJoinNow,
		})
		if err != nil {
			return err
		}
		upcoming, err := app.ListVisibleMeetingsHandler.Handle(ctx, meetingQueries.ListVisibleMeetingsQuery{
			Viewer: app.CurrentUser,
			Status: domain.StatusUpcoming,
		})
		if err != nil {
			return err
		}
		if len(upcoming) > maxUpcoming {
			upcoming = upcoming[:maxUpcoming]
		}

		view := dashboard{
			Date:          time.Now().Format("Monday, January 2, 2006"),
			JoinNow:       nonNil(joinNow),
			Upcoming:      nonNil(upcoming),
			Notifications: []notificationsDomain.Notification{},
		}
		if !app.CurrentUser.IsAnonymous() {
			items, err := app.NotificationService.List(ctx, app.CurrentUser)
			if err != nil {
				return err
			}
			if items != nil {
				view.Notifications = items
			}
		}

		return Render(cmd, view, func(w io.Writer) { writeDashboard(w, view) })
	},
}

func nonNil(meetings []meetingQueries.MeetingDTO) []meetingQueries.MeetingDTO {
	if meetings == nil {
		return []meetingQueries.MeetingDTO{}
	}
	return meetings
}

func writeDashboard(w io.Writer, view dashboard) {
	fmt.Fprintf(w, "\n  %s\n", view.Date)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\n  JOIN NOW")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if len(view.JoinNow) == 0 {
		fmt.Fprintln(w, "    Nothing to join today.")
	}
	for _, m := range view.JoinNow {
		fmt.Fprintf(w, "    %s  %s (%s)\n", m.JoinCode, m.Name, m.TypeLabel)
	}

	fmt.Fprintln(w, "\n  UPCOMING")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if len(view.Upcoming) == 0 {
		fmt.Fprintln(w, "    No upcoming meetings.")
	}
	for _, m := range view.Upcoming {
		fmt.Fprintf(w, "    %s  %s  %s\n", m.Date, m.JoinCode, m.Name)
	}

	if len(view.Notifications) > 0 {
		fmt.Fprintln(w, "\n  NOTIFICATIONS")
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, n := range view.Notifications {
			fmt.Fprintf(w, "    [%s] %s\n", n.Severity, n.Title)
		}
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
