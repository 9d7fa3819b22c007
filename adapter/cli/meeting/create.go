package meeting

import (
	"fmt"
	"io"
	"time"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	meetingCommands "github.com/felixgeelhaar/huddle/internal/meetings/application/commands"
	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/spf13/cobra"
)

var (
	createType     string
	createInvitees []string
	createDate     string
	createMaxUsers int
)

type createOutput struct {
	ID       string `json:"id" yaml:"id"`
	JoinCode string `json:"join_code" yaml:"join_code"`
	Message  string `json:"message" yaml:"message"`
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a meeting",
	Long: `Create a meeting and print its join code.

Examples:
  huddle meeting create "All hands" --type open --date 10/24/2026
  huddle meeting create "Design review" --type group-invite --invite ana,ben
  huddle meeting create "1:1" --type direct-invite --invite ana`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if err := app.RequireIdentity(); err != nil {
			return err
		}

		date := createDate
		if date == "" {
			date = domain.DateOf(time.Now()).ISO()
		}

		result, err := app.CreateMeetingHandler.Handle(cmd.Context(), meetingCommands.CreateMeetingCommand{
			CreatedBy:    app.CurrentUser,
			Name:         args[0],
			Type:         createType,
			InvitedUsers: createInvitees,
			Date:         date,
			MaxUsers:     createMaxUsers,
		})
		if err != nil {
			return err
		}

		out := createOutput{ID: result.MeetingID.String(), JoinCode: result.JoinCode, Message: result.Message}
		return cli.Render(cmd, out, func(w io.Writer) {
			fmt.Fprintln(w, result.Message)
			fmt.Fprintf(w, "Join code: %s\n", result.JoinCode)
		})
	},
}

func init() {
	createCmd.Flags().StringVarP(&createType, "type", "t", string(domain.TypeOpen), "meeting type (open, group-invite, direct-invite)")
	createCmd.Flags().StringSliceVarP(&createInvitees, "invite", "i", nil, "invited identities (comma separated)")
	createCmd.Flags().StringVarP(&createDate, "date", "d", "", "meeting date, MM/DD/YYYY or YYYY-MM-DD (default today)")
	createCmd.Flags().IntVar(&createMaxUsers, "max-users", 0, "room capacity (default depends on type)")
}
