package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity commands run as",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := RequireApp()
		if err != nil {
			return err
		}
		if a.CurrentUser.IsAnonymous() {
			fmt.Fprintln(cmd.OutOrStdout(), "anonymous")
			return nil
		}
		name := a.DisplayName
		if name == "" {
			name = a.CurrentUser.String()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", a.CurrentUser, name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
