package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	cliMCP "github.com/felixgeelhaar/huddle/adapter/cli/mcp"
	"github.com/felixgeelhaar/huddle/adapter/cli/meeting"
	"github.com/felixgeelhaar/huddle/adapter/cli/notification"
	"github.com/felixgeelhaar/huddle/internal/app"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/pkg/config"
	"github.com/felixgeelhaar/huddle/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := observability.LoggerFromEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			return 1
		}
		// version and whoami still work; meeting commands report ErrNotConfigured.
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		cliApp := cli.NewApp(container)
		cliApp.SetCurrentUser(sharedDomain.NewUserID(cfg.User), cfg.UserDisplayName)
		cli.SetApp(cliApp)
	}

	cli.AddCommand(meeting.Cmd)
	cli.AddCommand(notification.Cmd)
	cli.AddCommand(cliMCP.Cmd)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
