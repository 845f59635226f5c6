package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/stevendejongnl/harv/internal/domain"
)

// StatusViewer reports the running timer and today's booked time.
type StatusViewer struct {
	tracker  domain.TimeTracker
	reporter Reporter
	logger   Logger
	now      func() time.Time
}

// NewStatusViewer creates a StatusViewer.
func NewStatusViewer(tracker domain.TimeTracker, reporter Reporter, log Logger) *StatusViewer {
	return &StatusViewer{tracker: tracker, reporter: reporter, logger: log, now: time.Now}
}

// Run prints the running timer, today's entries and the daily total.
func (s *StatusViewer) Run(ctx context.Context) error {
	date := today(s.now)

	timer, err := s.tracker.RunningTimer(ctx)
	if err != nil {
		return fmt.Errorf("checking running timer: %w", err)
	}
	if timer == nil {
		s.reporter.Infof("No timer running.")
	} else {
		line := fmt.Sprintf("Running: %s (%.2fh", timer.Notes, timer.Hours)
		if timer.StartedTime != "" {
			line += ", since " + timer.StartedTime
		}
		line += ")"
		s.reporter.Successf("%s", line)
	}

	entries, err := s.tracker.EntriesForRange(ctx, date, date)
	if err != nil {
		return fmt.Errorf("listing today's entries: %w", err)
	}
	if len(entries) == 0 {
		s.reporter.Infof("No entries for today.")
		return nil
	}

	var total float64
	for _, entry := range entries {
		total += entry.Hours
		marker := " "
		if entry.IsRunning {
			marker = "▶"
		}
		s.reporter.Plainf("  %s %.2fh  %s", marker, entry.Hours, entry.Notes)
	}
	s.reporter.Plainf("Total today: %.2fh", total)
	return nil
}
