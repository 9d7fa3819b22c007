package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
)

var errJoinCodeRequired = errors.New("join_code is required")

func requireJoinCode(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errJoinCodeRequired
	}
	return value, nil
}

func parseOptionalStatus(value string) (domain.Status, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return domain.ParseStatus(value)
}

// afterWrite delivers queued events once a mutating tool has committed.
func (t *tools) afterWrite(ctx context.Context) {
	t.app.AfterCommand(ctx)
}
