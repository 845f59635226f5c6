// Package cmd provides the CLI commands for harv.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/domain"
	"github.com/stevendejongnl/harv/internal/infrastructure/config"
	"github.com/stevendejongnl/harv/internal/usecases"
)

// Logger defines the logging interface used by the commands.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]any)
	Debug(ctx context.Context, msg string, fields map[string]any)
	Warn(ctx context.Context, msg string, fields map[string]any)
	Error(ctx context.Context, msg string, err error, fields map[string]any)
}

// Dependencies holds all injectable dependencies for the commands.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// LoggerFactory creates a logger honoring the verbosity flags.
	LoggerFactory func(verbose, quiet bool) Logger

	// ConfigLoader loads and validates the application configuration.
	ConfigLoader func() (*config.Config, error)

	// ScannerFactory creates the git commit scanner.
	ScannerFactory func(log Logger) domain.CommitScanner

	// IssueTrackerFactory creates the Jira client from configuration.
	IssueTrackerFactory func(cfg *config.Config) domain.IssueTracker

	// TimeTrackerFactory creates the Harvest client from configuration.
	TimeTrackerFactory func(cfg *config.Config, log Logger) domain.TimeTracker

	// ProviderFactory creates the configured AI provider.
	ProviderFactory func(cfg *config.Config) (domain.Provider, error)

	// PrompterFactory creates the interactive prompter.
	PrompterFactory func() domain.Prompter

	// ReporterFactory creates the user-facing output writer.
	ReporterFactory func(quiet bool) usecases.Reporter

	// UsageFactory opens the project/task usage cache.
	UsageFactory func(ctx context.Context, log Logger) usecases.UsageRecorder
}

// Global command-line flags.
var (
	dryRun  bool
	verbose bool
	quiet   bool
)

// defaultDeps holds the production dependencies, set from main.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// NewRootCmd creates the root command for harv.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// Running harv without a subcommand runs sync.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "harv",
		Short: "Link git commits, Jira tickets and Harvest time tracking",
		Long: `harv scans your local git repositories for today's commits, extracts
Jira ticket references from the commit messages, and starts Harvest
timers for the work you are actually doing.

Running harv without a subcommand runs sync.

Examples:
  # Scan today's commits and start a timer
  harv

  # See the running timer and today's total
  harv status

  # Resume an entry from the last few days
  harv continue --days 3

  # Let the configured AI propose entries from a summary
  harv generate "reviewed PRs, fixed the login flow"`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, deps)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false,
		"Show what would happen without writing to Harvest")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose/debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"Only print warnings and errors")

	rootCmd.AddCommand(
		newSyncCmd(deps),
		newStatusCmd(deps),
		newStopCmd(deps),
		newContinueCmd(deps),
		newGenerateCmd(deps),
		newAddCmd(deps),
		newConfigCmd(deps),
	)

	return rootCmd
}

// runContext assembles the per-invocation flags.
func runContext() domain.RunContext {
	return domain.RunContext{DryRun: dryRun, Verbose: verbose, Quiet: quiet}
}

// setup performs the common command preamble: logger, config, reporter.
func setup(cmd *cobra.Command, deps *Dependencies) (context.Context, Logger, *config.Config, usecases.Reporter, error) {
	if deps == nil {
		return nil, nil, nil, nil, errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := deps.LoggerFactory(verbose, quiet)
	cfg, err := deps.ConfigLoader()
	if err != nil {
		log.Error(ctx, "failed to load configuration", err, nil)
		return nil, nil, nil, nil, fmt.Errorf("configuration error: %w", err)
	}

	reporter := deps.ReporterFactory(quiet)
	return ctx, log, cfg, reporter, nil
}

// finish maps the shared terminal outcomes: user cancellation exits
// cleanly with a note instead of an error trace.
func finish(reporter usecases.Reporter, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUserCancelled) {
		reporter.Infof("Cancelled.")
		return nil
	}
	return err
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
