package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/usecases"
)

func newStatusCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer and today's entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, log, cfg, reporter, err := setup(cmd, deps)
			if err != nil {
				return err
			}
			viewer := usecases.NewStatusViewer(deps.TimeTrackerFactory(cfg, log), reporter, log)
			return finish(reporter, viewer.Run(ctx))
		},
	}
}
