package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/usecases"
)

func newStopCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, log, cfg, reporter, err := setup(cmd, deps)
			if err != nil {
				return err
			}
			stopper := usecases.NewStopper(deps.TimeTrackerFactory(cfg, log), reporter, log)
			return finish(reporter, stopper.Run(ctx, runContext()))
		},
	}
}
