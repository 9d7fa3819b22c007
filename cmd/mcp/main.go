package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/huddle/internal/app"
	mcpinternal "github.com/felixgeelhaar/huddle/internal/mcp"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/pkg/config"
	"github.com/felixgeelhaar/huddle/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	user := sharedDomain.NewUserID(cfg.User)
	if user.IsAnonymous() {
		logger.Warn("HUDDLE_USER not set; MCP tools act anonymously")
	}
	cliApp := mcpinternal.NewCLIApp(container, user, cfg.UserDisplayName)

	if err := mcpinternal.Serve(ctx, cfg, cliApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		container.Close()
		os.Exit(1)
	}
}
