package meeting

import (
	"io"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	meetingQueries "github.com/felixgeelhaar/huddle/internal/meetings/application/queries"
	"github.com/spf13/cobra"
)

var allStatus string

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "List every meeting visible to you",
	Long: `List open meetings, meetings you created and meetings you are
invited to. Anonymous callers only see open meetings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		status, err := parseStatusFlag(allStatus)
		if err != nil {
			return err
		}

		meetings, err := app.ListVisibleMeetingsHandler.Handle(cmd.Context(), meetingQueries.ListVisibleMeetingsQuery{
			Viewer: app.CurrentUser,
			Status: status,
		})
		if err != nil {
			return err
		}
		return cli.Render(cmd, meetings, func(w io.Writer) { meetingTable(w, meetings) })
	},
}

func init() {
	allCmd.Flags().StringVarP(&allStatus, "status", "s", "", "only show meetings in this status")
}
