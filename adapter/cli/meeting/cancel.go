package meeting

import (
	"fmt"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	meetingCommands "github.com/felixgeelhaar/huddle/internal/meetings/application/commands"
	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel [join-code]",
	Short: "Cancel a meeting you created",
	Long: `Cancel a meeting. Invitees are notified and nobody can join it
afterwards. Cancelling twice is harmless.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if err := app.RequireIdentity(); err != nil {
			return err
		}

		err = app.CancelMeetingHandler.Handle(cmd.Context(), meetingCommands.CancelMeetingCommand{
			UserID:   app.CurrentUser,
			JoinCode: args[0],
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), meetingCommands.CancelledMessage)
		return nil
	},
}
