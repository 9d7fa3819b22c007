package meeting

import (
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	meetingServices "github.com/felixgeelhaar/huddle/internal/meetings/application/services"
	"github.com/spf13/cobra"
)

// ErrAccessDenied is returned when a join attempt is refused.
var ErrAccessDenied = errors.New("access denied")

var joinName string

type joinOutput struct {
	Outcome     string `json:"outcome" yaml:"outcome"`
	Room        string `json:"room,omitempty" yaml:"room,omitempty"`
	Identity    string `json:"identity,omitempty" yaml:"identity,omitempty"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Token       string `json:"token,omitempty" yaml:"token,omitempty"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
	Severity    string `json:"severity,omitempty" yaml:"severity,omitempty"`
	Redirect    string `json:"redirect,omitempty" yaml:"redirect,omitempty"`
}

var joinCmd = &cobra.Command{
	Use:   "join [join-code]",
	Short: "Join a meeting room",
	Long: `Ask to enter a meeting room. When access is granted a signed room
token is printed for the video client; otherwise the reason is shown
and the command exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		name := joinName
		if name == "" {
			name = app.DisplayName
		}
		result, err := app.JoinService.Join(cmd.Context(), meetingServices.JoinRequest{
			JoinCode:    args[0],
			Requester:   app.CurrentUser,
			DisplayName: name,
		})
		if err != nil {
			return err
		}

		out := joinOutput{
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

		err = cli.Render(cmd, out, func(w io.Writer) {
			if result.Decision.IsAllowed() {
				fmt.Fprintf(w, "Joining %s as %s\n", result.Room, result.DisplayName)
				fmt.Fprintf(w, "Token: %s\n", result.Token)
				return
			}
			if out.Message != "" {
				fmt.Fprintf(w, "[%s] %s\n", out.Severity, out.Message)
			}
		})
		if err != nil {
			return err
		}
		if !result.Decision.IsAllowed() {
			return fmt.Errorf("%w: %s", ErrAccessDenied, result.Decision.Outcome)
		}
		return nil
	},
}

func init() {
	joinCmd.Flags().StringVarP(&joinName, "name", "n", "", "display name shown in the room")
}
