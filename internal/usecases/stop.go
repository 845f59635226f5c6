package usecases

import (
	"context"
	"fmt"

	"github.com/stevendejongnl/harv/internal/domain"
)

// Stopper stops the running timer, if any.
type Stopper struct {
	tracker  domain.TimeTracker
	reporter Reporter
	logger   Logger
}

// NewStopper creates a Stopper.
func NewStopper(tracker domain.TimeTracker, reporter Reporter, log Logger) *Stopper {
	return &Stopper{tracker: tracker, reporter: reporter, logger: log}
}

// Run stops the running timer. No running timer is a clean exit.
func (s *Stopper) Run(ctx context.Context, rc domain.RunContext) error {
	timer, err := s.tracker.RunningTimer(ctx)
	if err != nil {
		return fmt.Errorf("checking running timer: %w", err)
	}
	if timer == nil {
		s.reporter.Infof("No timer running.")
		return nil
	}

	stopped, err := s.tracker.StopTimer(ctx, timer.ID, rc)
	if err != nil {
		return fmt.Errorf("stopping timer: %w", err)
	}
	if rc.DryRun {
		s.reporter.Successf("[dry-run] Would stop: %s", timer.Notes)
		return nil
	}
	s.logger.Info(ctx, "stopped timer", map[string]any{"entry_id": timer.ID})
	s.reporter.Successf("Stopped: %s (%.2fh)", timer.Notes, stopped.Hours)
	return nil
}
