package mcp

import (
	"errors"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	"github.com/felixgeelhaar/mcp-go"
)

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	t := &tools{app: deps.App}
	registerMeetingTools(srv, t)
	registerNotificationTools(srv, t)
	return nil
}

// tools holds the handlers shared by every registered tool.
type tools struct {
	app *cli.App
}
