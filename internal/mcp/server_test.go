package mcp

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/huddle/adapter/cli"
	"github.com/felixgeelhaar/huddle/pkg/config"
	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("requires an app", func(t *testing.T) {
		_, err := NewServer(nil, nil)

		assert.Error(t, err)
	})

	t.Run("exposes the meeting tools", func(t *testing.T) {
		srv, err := NewServer(&cli.App{}, nil)
		require.NoError(t, err)

		tc := testutil.NewTestClient(t, srv)
		defer tc.Close()

		tools, err := tc.ListTools()
		require.NoError(t, err)
		assert.NotEmpty(t, tools)
	})
}

func TestServe_RequiresConfig(t *testing.T) {
	err := Serve(context.Background(), nil, &cli.App{}, nil)
	assert.Error(t, err)

	err = Serve(context.Background(), &config.Config{}, nil, nil)
	assert.Error(t, err)
}

func TestFieldsToArgs(t *testing.T) {
	args := fieldsToArgs([]middleware.Field{
		{Key: "method", Value: "tools/call"},
		{Key: "duration_ms", Value: 12},
	})

	assert.Equal(t, []any{"method", "tools/call", "duration_ms", 12}, args)
}
