package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/domain"
	"github.com/stevendejongnl/harv/internal/usecases"
)

var (
	continueDays     int
	continueRestart  bool
	continueNewEntry bool
)

func newContinueCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Resume a stopped entry from the last few days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runContinue(cmd, deps)
		},
	}
	cmd.Flags().IntVar(&continueDays, "days", 0,
		"How many days to look back (default from config, else 1)")
	cmd.Flags().BoolVar(&continueRestart, "restart", false,
		"Restart the chosen entry in place, keeping its original date")
	cmd.Flags().BoolVar(&continueNewEntry, "new-entry", false,
		"Create a fresh entry for today instead of restarting")
	cmd.MarkFlagsMutuallyExclusive("restart", "new-entry")
	return cmd
}

func runContinue(cmd *cobra.Command, deps *Dependencies) error {
	ctx, log, cfg, reporter, err := setup(cmd, deps)
	if err != nil {
		return err
	}
	if continueDays < 0 {
		return fmt.Errorf("--days must not be negative")
	}

	modeFlag := ""
	if continueRestart {
		modeFlag = domain.ContinueRestart
	}
	if continueNewEntry {
		modeFlag = domain.ContinueNew
	}

	tracker := deps.TimeTrackerFactory(cfg, log)
	prompter := deps.PrompterFactory()
	resolver := usecases.NewTimerResolver(tracker, prompter, log)
	engine := usecases.NewContinueEngine(tracker, prompter, resolver, reporter, log)

	err = engine.Run(ctx, usecases.ContinueInput{
		DaysFlag:     continueDays,
		SettingsDays: cfg.Settings.ContinueDays,
		ModeFlag:     modeFlag,
		SettingsMode: cfg.Settings.ContinueMode,
		AutoStop:     cfg.Settings.AutoStop,
	}, runContext())
	return finish(reporter, err)
}
