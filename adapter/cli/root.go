package cli

import (
	"context"
	"log/slog"
	"time"

	sharedDomain "github.com/felixgeelhaar/huddle/internal/shared/domain"
	"github.com/felixgeelhaar/huddle/pkg/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose      bool
	outputFormat string
	actAs        string
	logger       *slog.Logger
)

type commandStartKey struct{}

var rootCmd = &cobra.Command{
	Use:   "huddle",
	Short: "Huddle - video meeting rooms with invitation-based access",
	Long: `Huddle creates video meeting rooms identified by short join codes.

Rooms are open to anyone, limited to a group of invitees, or reserved
for a one-on-one conversation. Access is decided by the meeting type,
the invitation list and the meeting date.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ParseFormat(outputFormat); err != nil {
			return err
		}
		if actAs != "" && app != nil {
			app.SetCurrentUser(sharedDomain.NewUserID(actAs), "")
		}
		ctx := observability.WithCorrelationID(cmd.Context(), "")
		ctx = contextWithStart(ctx, time.Now())
		cmd.SetContext(ctx)
		Logger().DebugContext(ctx, "command start", "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if app != nil {
			app.AfterCommand(ctx)
		}
		if started, ok := startFromContext(ctx); ok {
			Logger().DebugContext(ctx, "command end",
				"command", cmd.CommandPath(),
				"duration_ms", time.Since(started).Milliseconds(),
			)
		}
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&actAs, "as", "", "identity to act as (overrides HUDDLE_USER)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(FormatTable), "output format (table, json, yaml)")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Root exposes the root command for tests.
func Root() *cobra.Command {
	return rootCmd
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Logger returns the CLI logger, falling back to slog.Default.
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}

// ResetFlags restores every flag under cmd to its default, so a command
// tree can be executed more than once in one process.
func ResetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		ResetFlags(child)
	}
}
