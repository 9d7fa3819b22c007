// Package meeting implements the huddle meeting commands.
package meeting

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	meetingQueries "github.com/felixgeelhaar/huddle/internal/meetings/application/queries"
	"github.com/spf13/cobra"
)

// Cmd is the meeting command group.
var Cmd = &cobra.Command{
	Use:     "meeting",
	Aliases: []string{"meetings", "m"},
	Short:   "Create, list and join meetings",
	Long: `Create, list, edit, cancel and join meetings.

Meetings are identified by their six-character join code.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(allCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(joinCmd)
}

func meetingTable(w io.Writer, meetings []meetingQueries.MeetingDTO) {
	if len(meetings) == 0 {
		fmt.Fprintln(w, "No meetings found.")
		return
	}
	rows := make([][]string, 0, len(meetings))
	for _, m := range meetings {
		edit := ""
		if m.Editable {
			edit = "yes"
		}
		rows = append(rows, []string{
			m.JoinCode,
			m.Name,
			m.TypeLabel,
			m.Date,
			m.CreatedBy,
			m.StatusLabel,
			edit,
		})
	}
	cli.Table(w, []string{"CODE", "NAME", "TYPE", "DATE", "CREATED BY", "STATUS", "EDITABLE"}, rows)
}

func invitees(users []string) string {
	if len(users) == 0 {
		return "-"
	}
	return strings.Join(users, ", ")
}

func maxUsers(n int) string {
	if n <= 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
