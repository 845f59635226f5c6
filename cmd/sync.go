package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/ticket"
	"github.com/stevendejongnl/harv/internal/usecases"
)

var (
	syncAutoStart bool
	syncAutoStop  bool
)

func newSyncCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Scan today's commits and start a timer for a referenced ticket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, deps)
		},
	}
	cmd.Flags().BoolVar(&syncAutoStart, "auto-start", false,
		"Start a timer for the first ticket without prompting")
	cmd.Flags().BoolVar(&syncAutoStop, "auto-stop", false,
		"Stop a conflicting running timer without asking")
	return cmd
}

func runSync(cmd *cobra.Command, deps *Dependencies) error {
	ctx, log, cfg, reporter, err := setup(cmd, deps)
	if err != nil {
		return err
	}

	tracker := deps.TimeTrackerFactory(cfg, log)
	prompter := deps.PrompterFactory()
	resolver := usecases.NewTimerResolver(tracker, prompter, log)
	syncer := usecases.NewSyncer(
		deps.ScannerFactory(log),
		deps.IssueTrackerFactory(cfg),
		tracker,
		prompter,
		ticket.NewMatcher(cfg.Settings.TicketDenylist),
		resolver,
		reporter,
		log,
	)

	err = syncer.Run(ctx, usecases.SyncInput{
		RepoPaths:        cfg.Settings.Repos,
		AutoStart:        syncAutoStart || cfg.Settings.AutoStart,
		AutoStop:         syncAutoStop || cfg.Settings.AutoStop,
		AutoSelectSingle: cfg.Settings.AutoSelectSingle,
	}, runContext())
	return finish(reporter, err)
}
