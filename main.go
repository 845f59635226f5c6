package main

import (
	"context"

	"github.com/stevendejongnl/harv/cmd"
	"github.com/stevendejongnl/harv/internal/adapters/ai"
	"github.com/stevendejongnl/harv/internal/adapters/gitscan"
	"github.com/stevendejongnl/harv/internal/adapters/harvest"
	"github.com/stevendejongnl/harv/internal/adapters/jira"
	"github.com/stevendejongnl/harv/internal/adapters/logger"
	"github.com/stevendejongnl/harv/internal/adapters/prompt"
	"github.com/stevendejongnl/harv/internal/domain"
	"github.com/stevendejongnl/harv/internal/infrastructure/config"
	"github.com/stevendejongnl/harv/internal/usage"
	"github.com/stevendejongnl/harv/internal/usecases"
)

func main() {
	cmd.SetDefaultDependencies(&cmd.Dependencies{
		LoggerFactory: func(verbose, quiet bool) cmd.Logger {
			return logger.New(verbose, quiet)
		},
		ConfigLoader: func() (*config.Config, error) {
			path, err := config.Path()
			if err != nil {
				return nil, err
			}
			return config.Load(path)
		},
		ScannerFactory: func(log cmd.Logger) domain.CommitScanner {
			return gitscan.NewScanner(log)
		},
		IssueTrackerFactory: func(cfg *config.Config) domain.IssueTracker {
			return jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.AccessToken)
		},
		TimeTrackerFactory: func(cfg *config.Config, log cmd.Logger) domain.TimeTracker {
			return harvest.NewClient(harvest.DefaultBaseURL, cfg.Harvest.AccessToken, cfg.Harvest.AccountID, log)
		},
		ProviderFactory: func(cfg *config.Config) (domain.Provider, error) {
			return ai.NewProvider(cfg.AI.Provider, cfg.AI.APIKey, cfg.AI.Model)
		},
		PrompterFactory: func() domain.Prompter {
			return prompt.NewSurvey()
		},
		ReporterFactory: func(quiet bool) usecases.Reporter {
			return prompt.NewDisplay(quiet)
		},
		UsageFactory: func(ctx context.Context, log cmd.Logger) usecases.UsageRecorder {
			path, err := config.UsagePath()
			if err != nil {
				log.Warn(ctx, "usage cache unavailable", map[string]any{"error": err.Error()})
			}
			cache, discarded := usage.Load(path)
			if discarded {
				log.Warn(ctx, "usage cache unreadable, starting fresh", map[string]any{"path": path})
			}
			return cache
		},
	})
	cmd.Execute()
}
