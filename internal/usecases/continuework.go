package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/stevendejongnl/harv/internal/domain"
)

// ContinueInput carries the per-run settings for the continue flow.
// Flags win over configured settings; unset values are zero.
type ContinueInput struct {
	DaysFlag     int
	SettingsDays int
	ModeFlag     string
	SettingsMode string
	AutoStop     bool
}

// ContinueEngine resumes a past stopped entry, either by restarting it in
// place or by creating a fresh entry for today.
type ContinueEngine struct {
	tracker  domain.TimeTracker
	prompter domain.Prompter
	resolver *TimerResolver
	reporter Reporter
	logger   Logger
	now      func() time.Time
}

// NewContinueEngine creates a ContinueEngine.
func NewContinueEngine(
	tracker domain.TimeTracker,
	prompter domain.Prompter,
	resolver *TimerResolver,
	reporter Reporter,
	log Logger,
) *ContinueEngine {
	return &ContinueEngine{
		tracker:  tracker,
		prompter: prompter,
		resolver: resolver,
		reporter: reporter,
		logger:   log,
		now:      time.Now,
	}
}

// Run executes the continue flow. Finding no resumable entries in the
// lookback window is a clean exit.
func (e *ContinueEngine) Run(ctx context.Context, in ContinueInput, rc domain.RunContext) error {
	lookback := in.DaysFlag
	if lookback <= 0 {
		lookback = in.SettingsDays
	}
	if lookback <= 0 {
		lookback = 1
	}

	now := e.now()
	to := now.Format(domain.DateFormat)
	from := now.AddDate(0, 0, -(lookback - 1)).Format(domain.DateFormat)

	entries, err := e.tracker.EntriesForRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}

	// Only stopped entries with both project and task can be resumed.
	var candidates []domain.TimeEntry
	for _, entry := range entries {
		if entry.IsRunning || entry.Project == nil || entry.Task == nil {
			continue
		}
		candidates = append(candidates, entry)
	}
	if len(candidates) == 0 {
		e.reporter.Infof("No entries to continue in the last %d day(s).", lookback)
		return nil
	}

	labels := make([]string, 0, len(candidates))
	for _, entry := range candidates {
		labels = append(labels, entryLabel(entry, to))
	}
	idx, err := e.prompter.FuzzySelect("Continue which entry?", labels)
	if err != nil {
		return err
	}
	chosen := candidates[idx]

	mode, err := e.pickMode(in)
	if err != nil {
		return err
	}

	// The chosen entry's notes stand in for a ticket key, so a running
	// timer on the same work is detected by notes containment.
	target := ConflictTarget{Key: chosen.Notes, Label: chosen.Notes}
	decision, err := e.resolver.Resolve(ctx, target, in.AutoStop, rc)
	if err != nil {
		return err
	}
	switch decision {
	case DecisionAlreadyTracking:
		e.reporter.Infof("Already tracking %q.", chosen.Notes)
		return nil
	case DecisionKeepCurrent:
		e.reporter.Infof("Keeping the current timer.")
		return nil
	}

	switch mode {
	case domain.ContinueRestart:
		if _, err := e.tracker.RestartEntry(ctx, chosen.ID, rc); err != nil {
			return fmt.Errorf("restarting entry: %w", err)
		}
		if rc.DryRun {
			e.reporter.Successf("[dry-run] Would restart: %s (%s)", chosen.Notes, chosen.SpentDate)
			return nil
		}
		e.logger.Info(ctx, "restarted entry", map[string]any{"entry_id": chosen.ID})
		e.reporter.Successf("Restarted: %s (%s)", chosen.Notes, chosen.SpentDate)
	case domain.ContinueNew:
		_, err := e.tracker.StartTimer(ctx, domain.StartTimerInput{
			Notes:     chosen.Notes,
			ProjectID: chosen.Project.ID,
			TaskID:    chosen.Task.ID,
			SpentDate: to,
		}, rc)
		if err != nil {
			return fmt.Errorf("starting new entry: %w", err)
		}
		if rc.DryRun {
			e.reporter.Successf("[dry-run] Would start new timer: %s", chosen.Notes)
			return nil
		}
		e.reporter.Successf("Started new timer: %s", chosen.Notes)
	}
	return nil
}

// pickMode resolves the continue mode: flag beats setting beats prompt.
func (e *ContinueEngine) pickMode(in ContinueInput) (string, error) {
	if in.ModeFlag == domain.ContinueRestart || in.ModeFlag == domain.ContinueNew {
		return in.ModeFlag, nil
	}
	if in.SettingsMode == domain.ContinueRestart || in.SettingsMode == domain.ContinueNew {
		return in.SettingsMode, nil
	}

	idx, err := e.prompter.Select("How do you want to continue?", []string{
		"Restart the entry (keeps its original date)",
		"New entry for today",
	})
	if err != nil {
		return "", err
	}
	if idx == 0 {
		return domain.ContinueRestart, nil
	}
	return domain.ContinueNew, nil
}

// entryLabel renders a resumable entry for the picker. The date tag only
// appears for entries from a previous day.
func entryLabel(entry domain.TimeEntry, todayDate string) string {
	label := fmt.Sprintf("%s • %s > %s (%.2fh)",
		entry.Notes, entry.Project.Name, entry.Task.Name, entry.Hours)
	if entry.SpentDate != todayDate {
		label += fmt.Sprintf(" [%s]", entry.SpentDate)
	}
	return label
}
