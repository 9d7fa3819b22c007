package mcp

import (
	"github.com/felixgeelhaar/huddle/adapter/cli"
	"github.com/felixgeelhaar/huddle/internal/app"
	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
)

// NewCLIApp creates a CLI application acting as user, backed by the provided container.
func NewCLIApp(container *app.Container, user sharedDomain.UserID, displayName string) *cli.App {
	cliApp := cli.NewApp(container)
	cliApp.SetCurrentUser(user, displayName)
	return cliApp
}
