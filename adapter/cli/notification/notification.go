// Package notification implements the huddle notification commands.
package notification

import (
	"fmt"
	"io"
	"time"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	notificationsDomain "github.com/felixgeelhaar/huddle/internal/notifications/domain"
	"github.com/spf13/cobra"
)

// Cmd is the notification command group.
var Cmd = &cobra.Command{
	Use:     "notification",
	Aliases: []string{"notifications", "n"},
	Short:   "Read and dismiss notifications",
}

var dismissAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notifications, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if err := app.RequireIdentity(); err != nil {
			return err
		}

		items, err := app.NotificationService.List(cmd.Context(), app.CurrentUser)
		if err != nil {
			return err
		}
		if items == nil {
			items = []notificationsDomain.Notification{}
		}
		return cli.Render(cmd, items, func(w io.Writer) {
			if len(items) == 0 {
				fmt.Fprintln(w, "No notifications.")
				return
			}
			rows := make([][]string, 0, len(items))
			for _, n := range items {
				rows = append(rows, []string{
					n.ID.String(),
					string(n.Severity),
					n.CreatedAt.Local().Format(time.Kitchen),
					n.Title,
				})
			}
			cli.Table(w, []string{"ID", "SEVERITY", "AT", "TITLE"}, rows)
		})
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss [id]",
	Short: "Dismiss one notification, or all with --all",
	Args: func(cmd *cobra.Command, args []string) error {
		if dismissAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if err := app.RequireIdentity(); err != nil {
			return err
		}

		if dismissAll {
			n, err := app.NotificationService.DismissAll(cmd.Context(), app.CurrentUser)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dismissed %d notification(s).\n", n)
			return nil
		}

		if err := app.NotificationService.Dismiss(cmd.Context(), app.CurrentUser, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Dismissed.")
		return nil
	},
}

func init() {
	dismissCmd.Flags().BoolVarP(&dismissAll, "all", "a", false, "dismiss every notification")
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(dismissCmd)
}
