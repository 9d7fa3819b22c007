package meeting

import (
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	meetingCommands "github.com/felixgeelhaar/huddle/internal/meetings/application/commands"
	"github.com/spf13/cobra"
)

var (
	editName     string
	editDate     string
	editInvitees []string
	editMaxUsers int
)

type editOutput struct {
	ChangedFields []string `json:"changed_fields" yaml:"changed_fields"`
	Message       string   `json:"message" yaml:"message"`
}

var editCmd = &cobra.Command{
	Use:   "edit [join-code]",
	Short: "Edit a meeting you created",
	Long: `Change the name, date, invitees or capacity of a meeting you created.
Only the flags you pass are changed. Ended and cancelled meetings cannot
be edited.

Examples:
  huddle meeting edit AbC123 --date 10/25/2026
  huddle meeting edit AbC123 --invite ana,ben,cy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if err := app.RequireIdentity(); err != nil {
			return err
		}

		command := meetingCommands.UpdateMeetingCommand{
			UserID:   app.CurrentUser,
			JoinCode: args[0],
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			command.Name = &editName
		}
		if flags.Changed("date") {
			command.Date = &editDate
		}
		if flags.Changed("invite") {
			command.InvitedUsers = &editInvitees
		}
		if flags.Changed("max-users") {
			command.MaxUsers = &editMaxUsers
		}

		result, err := app.UpdateMeetingHandler.Handle(cmd.Context(), command)
		if err != nil {
			return err
		}

		out := editOutput{ChangedFields: result.ChangedFields, Message: result.Message}
		if out.ChangedFields == nil {
			out.ChangedFields = []string{}
		}
		return cli.Render(cmd, out, func(w io.Writer) {
			fmt.Fprintln(w, result.Message)
			if len(result.ChangedFields) > 0 {
				fmt.Fprintf(w, "Changed: %s\n", strings.Join(result.ChangedFields, ", "))
			}
		})
	},
}

func init() {
	editCmd.Flags().StringVar(&editName, "name", "", "new meeting name")
	editCmd.Flags().StringVarP(&editDate, "date", "d", "", "new meeting date")
	editCmd.Flags().StringSliceVarP(&editInvitees, "invite", "i", nil, "replace the invitation list")
	editCmd.Flags().IntVar(&editMaxUsers, "max-users", 0, "new room capacity")
}
