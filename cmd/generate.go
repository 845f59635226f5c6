package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/timefmt"
	"github.com/stevendejongnl/harv/internal/usecases"
)

var (
	generateAutoApprove bool
	generateTargetHours string
)

func newGenerateCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [summary]",
		Short: "Generate time entries from a work summary via the configured AI provider",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, deps)
		},
	}
	cmd.Flags().BoolVar(&generateAutoApprove, "auto-approve", false,
		"Create every validated proposal without asking")
	cmd.Flags().StringVar(&generateTargetHours, "target-hours", "",
		"Override the configured daily target, e.g. 6 or 7:30")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string, deps *Dependencies) error {
	ctx, log, cfg, reporter, err := setup(cmd, deps)
	if err != nil {
		return err
	}

	if !cfg.AI.Enabled {
		return fmt.Errorf("AI generation is disabled; set ai.enabled = true in the config")
	}

	var target float64
	if generateTargetHours != "" {
		target, err = timefmt.ParseHours(generateTargetHours)
		if err != nil {
			return fmt.Errorf("invalid --target-hours: %w", err)
		}
	}

	provider, err := deps.ProviderFactory(cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	tracker := deps.TimeTrackerFactory(cfg, log)
	generator := usecases.NewGenerator(
		tracker,
		provider,
		deps.PrompterFactory(),
		reporter,
		log,
		cfg.AI.TargetHours,
	)

	err = generator.Run(ctx, usecases.GenerateInput{
		Summary:     strings.Join(args, " "),
		AutoApprove: generateAutoApprove,
		TargetHours: target,
	}, runContext())
	return finish(reporter, err)
}
