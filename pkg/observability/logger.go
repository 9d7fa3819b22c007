// Package observability provides structured logging, health checks and
// Prometheus metrics for the huddle binaries.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat specifies the output format for logs.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogLevel represents logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogConfig configures the logger.
type LogConfig struct {
	Level  LogLevel
	Format LogFormat
	// Output defaults to os.Stderr so CLI output on stdout stays parseable.
	Output      io.Writer
	AddSource   bool
	ServiceName string
	Version     string
}

// DefaultLogConfig returns the settings used on a developer machine.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       LogLevelWarn,
		Format:      LogFormatText,
		Output:      os.Stderr,
		ServiceName: "huddle",
		Version:     "dev",
	}
}

// ProductionLogConfig returns the settings used by deployed workers.
func ProductionLogConfig() LogConfig {
	return LogConfig{
		Level:       LogLevelInfo,
		Format:      LogFormatJSON,
		Output:      os.Stderr,
		AddSource:   true,
		ServiceName: "huddle",
		Version:     "unknown",
	}
}

// NewLogger creates a structured logger that also stamps correlation and
// request IDs found on the record's context.
func NewLogger(cfg LogConfig) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(string(cfg.Level)),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(string(cfg.Format), string(LogFormatJSON)) {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	var attrs []slog.Attr
	if cfg.ServiceName != "" {
		attrs = append(attrs, slog.String("service", cfg.ServiceName))
	}
	if cfg.Version != "" {
		attrs = append(attrs, slog.String("version", cfg.Version))
	}

	return slog.New(&contextHandler{handler: handler.WithAttrs(attrs)})
}

// LoggerFromEnv creates a logger from HUDDLE_ENV, HUDDLE_LOG_LEVEL,
// HUDDLE_LOG_FORMAT and HUDDLE_VERSION.
func LoggerFromEnv() *slog.Logger {
	cfg := DefaultLogConfig()
	if os.Getenv("HUDDLE_ENV") == "production" {
		cfg = ProductionLogConfig()
	}
	if level := os.Getenv("HUDDLE_LOG_LEVEL"); level != "" {
		cfg.Level = LogLevel(level)
	}
	if format := os.Getenv("HUDDLE_LOG_FORMAT"); format != "" {
		cfg.Format = LogFormat(format)
	}
	if version := os.Getenv("HUDDLE_VERSION"); version != "" {
		cfg.Version = version
	}
	return NewLogger(cfg)
}

// ParseLevel maps a level name to slog. Unknown names become info.
func ParseLevel(level string) slog.Level {
	switch LogLevel(strings.ToLower(strings.TrimSpace(level))) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type contextHandler struct {
	handler slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := CorrelationIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(CorrelationIDKey, id))
	}
	if id := RequestIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String(RequestIDKey, id))
	}
	return h.handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{handler: h.handler.WithGroup(name)}
}
