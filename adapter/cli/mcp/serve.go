package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/huddle/internal/mcp"
	"github.com/felixgeelhaar/huddle/pkg/config"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve the huddle tools over MCP (streamable HTTP) as the current
identity. Set HUDDLE_MCP_TOKEN to require a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.MCPAddr = serveAddr
		}

		err = mcpinternal.Serve(cmd.Context(), cfg, app, cli.Logger())
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default HUDDLE_MCP_ADDR)")
}
