package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/usecases"
)

func newAddCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add a time entry interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, log, cfg, reporter, err := setup(cmd, deps)
			if err != nil {
				return err
			}

			tracker := deps.TimeTrackerFactory(cfg, log)
			prompter := deps.PrompterFactory()
			resolver := usecases.NewTimerResolver(tracker, prompter, log)
			adder := usecases.NewAdder(
				tracker,
				prompter,
				resolver,
				deps.UsageFactory(ctx, log),
				reporter,
				log,
			)
			return finish(reporter, adder.Run(ctx, runContext()))
		},
	}
}
