package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/stevendejongnl/harv/internal/infrastructure/config"
)

func newConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the harv configuration",
	}
	cmd.AddCommand(
		newConfigInitCmd(deps),
		newConfigShowCmd(deps),
		newConfigValidateCmd(deps),
	)
	return cmd
}

func newConfigInitCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if deps == nil {
				return errors.New("dependencies not configured")
			}
			reporter := deps.ReporterFactory(quiet)

			path, err := config.Path()
			if err != nil {
				return err
			}
			if err := config.WriteTemplate(path); err != nil {
				return err
			}
			reporter.Successf("Wrote %s", path)
			reporter.Infof("Fill in your tokens, then run `harv config validate`.")
			return nil
		},
	}
}

func newConfigShowCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if deps == nil {
				return errors.New("dependencies not configured")
			}
			reporter := deps.ReporterFactory(quiet)

			path, err := config.Path()
			if err != nil {
				return err
			}
			// Show skips validation so a broken config can be inspected.
			cfg, err := config.Read(path)
			if err != nil {
				return err
			}

			reporter.Plainf("config file: %s", path)
			reporter.Plainf("")
			reporter.Plainf("[harvest]")
			reporter.Plainf("  access_token = %s", config.Mask(cfg.Harvest.AccessToken))
			reporter.Plainf("  account_id   = %s", cfg.Harvest.AccountID)
			reporter.Plainf("[jira]")
			reporter.Plainf("  access_token = %s", config.Mask(cfg.Jira.AccessToken))
			reporter.Plainf("  base_url     = %s", cfg.Jira.BaseURL)
			reporter.Plainf("[settings]")
			reporter.Plainf("  repos              = %v", cfg.Settings.Repos)
			reporter.Plainf("  ticket_denylist    = %v", cfg.Settings.TicketDenylist)
			reporter.Plainf("  auto_stop          = %t", cfg.Settings.AutoStop)
			reporter.Plainf("  auto_start         = %t", cfg.Settings.AutoStart)
			reporter.Plainf("  auto_select_single = %t", cfg.Settings.AutoSelectSingle)
			reporter.Plainf("  continue_mode      = %s", cfg.Settings.ContinueMode)
			reporter.Plainf("  continue_days      = %d", cfg.Settings.ContinueDays)
			reporter.Plainf("[ai]")
			reporter.Plainf("  enabled      = %t", cfg.AI.Enabled)
			reporter.Plainf("  provider     = %s", cfg.AI.Provider)
			reporter.Plainf("  model        = %s", cfg.AI.Model)
			reporter.Plainf("  api_key      = %s", config.Mask(cfg.AI.APIKey))
			reporter.Plainf("  target_hours = %.2f", cfg.AI.TargetHours)
			return nil
		},
	}
}

func newConfigValidateCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for problems",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if deps == nil {
				return errors.New("dependencies not configured")
			}
			reporter := deps.ReporterFactory(quiet)

			path, err := config.Path()
			if err != nil {
				return err
			}
			if _, err := config.Load(path); err != nil {
				return err
			}
			reporter.Successf("Configuration at %s is valid.", path)
			return nil
		},
	}
}
