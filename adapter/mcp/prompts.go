package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common huddle workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("schedule_meeting").
		Description("Set up a meeting with the right type and invitees.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			topic := args["topic"]
			if topic == "" {
				topic = "a meeting"
			}
			attendees := args["attendees"]
			if attendees == "" {
				attendees = "anyone with the join code"
			}

			return &mcp.PromptResult{
				Description: "Schedule a meeting",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Help me schedule %s for %s.

1. Pick the meeting type:
   - open: anyone with the join code may enter
   - group-invite: only the creator and the listed invitees
   - direct-invite: a one-to-one call with exactly one invitee
2. Check huddle://meetings/mine so the new meeting does not duplicate one I already have.
3. Create it with the meeting.create tool. Dates use YYYY-MM-DD or MM/DD/YYYY.
4. Tell me the join code and who was notified.`, topic, attendees),
						},
					},
				},
			}, nil
		})

	srv.Prompt("join_today").
		Description("Find the meetings that can be joined today and enter one.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Join a meeting",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Read huddle://meetings/joinable and list the meetings I can join right now.
Ask me which one to enter, then call meeting.join with its join code.
If the join is refused, show me the message and severity from the result.
Finally read huddle://notifications and summarise anything new.`,
						},
					},
				},
			}, nil
		})

	return nil
}
