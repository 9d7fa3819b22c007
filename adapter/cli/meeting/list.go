package meeting

import (
	"io"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	meetingQueries "github.com/felixgeelhaar/huddle/internal/meetings/application/queries"
	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/spf13/cobra"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List meetings you created",
	Long: `List the meetings you created, with their status.

Examples:
  huddle meeting list
  huddle meeting list --status upcoming
  huddle meeting list -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		status, err := parseStatusFlag(listStatus)
		if err != nil {
			return err
		}

		meetings, err := app.ListMyMeetingsHandler.Handle(cmd.Context(), meetingQueries.ListMyMeetingsQuery{
			Viewer: app.CurrentUser,
			Status: status,
		})
		if err != nil {
			return err
		}
		return cli.Render(cmd, meetings, func(w io.Writer) { meetingTable(w, meetings) })
	},
}

func parseStatusFlag(value string) (domain.Status, error) {
	if value == "" {
		return "", nil
	}
	return domain.ParseStatus(value)
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "only show meetings in this status (upcoming, join_now, ended, cancelled)")
}
