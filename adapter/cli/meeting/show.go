package meeting

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	meetingQueries "github.com/felixgeelhaar/huddle/internal/meetings/application/queries"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [join-code]",
	Short: "Show a meeting and whether you may join it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		m, err := app.GetMeetingHandler.Handle(cmd.Context(), meetingQueries.GetMeetingQuery{
			JoinCode: args[0],
			Viewer:   app.CurrentUser,
		})
		if err != nil {
			return err
		}

		return cli.Render(cmd, m, func(w io.Writer) {
			fmt.Fprintf(w, "%s (%s)\n", m.Name, m.JoinCode)
			fmt.Fprintf(w, "  Type:       %s\n", m.TypeLabel)
			fmt.Fprintf(w, "  Date:       %s\n", m.Date)
			fmt.Fprintf(w, "  Created by: %s\n", m.CreatedBy)
			fmt.Fprintf(w, "  Invited:    %s\n", invitees(m.InvitedUsers))
			fmt.Fprintf(w, "  Max users:  %s\n", maxUsers(m.MaxUsers))
			fmt.Fprintf(w, "  Status:     %s\n", m.StatusLabel)
			fmt.Fprintf(w, "  Access:     %s\n", m.Access)
		})
	},
}
