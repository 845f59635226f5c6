package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/stevendejongnl/harv/internal/domain"
)

// Decision is the outcome of resolving a timer conflict.
type Decision int

const (
	// DecisionProceed means no timer blocks the start; any conflicting
	// timer has already been stopped.
	DecisionProceed Decision = iota

	// DecisionAlreadyTracking means the running timer already covers the
	// target ticket; nothing to do.
	DecisionAlreadyTracking

	// DecisionKeepCurrent means the user chose to keep the running timer.
	DecisionKeepCurrent
)

// ConflictTarget describes what the caller wants to start tracking. Key
// is matched against the running timer's notes; Label is what the user
// sees in the confirmation prompt.
type ConflictTarget struct {
	Key   string
	Label string
}

// TimerResolver decides what happens when a new timer is about to start
// while another may be running. It stops the conflicting timer itself
// when allowed; the caller only ever starts the new one.
type TimerResolver struct {
	tracker  domain.TimeTracker
	prompter domain.Prompter
	logger   Logger
}

// NewTimerResolver creates a TimerResolver.
func NewTimerResolver(tracker domain.TimeTracker, prompter domain.Prompter, log Logger) *TimerResolver {
	return &TimerResolver{tracker: tracker, prompter: prompter, logger: log}
}

// Resolve fetches the running timer and applies the decision rules:
// no timer runs, proceed; the timer's notes contain the target key,
// already tracking; otherwise stop it when autoStop is set or the user
// confirms, else keep the current timer.
func (r *TimerResolver) Resolve(ctx context.Context, target ConflictTarget, autoStop bool, rc domain.RunContext) (Decision, error) {
	timer, err := r.tracker.RunningTimer(ctx)
	if err != nil {
		return DecisionKeepCurrent, fmt.Errorf("checking running timer: %w", err)
	}
	if timer == nil {
		return DecisionProceed, nil
	}

	// An empty key would match any notes; treat it as a different ticket.
	if target.Key != "" && containsKey(timer.Notes, target.Key) {
		r.logger.Debug(ctx, "timer already tracks target", map[string]any{
			"timer_id": timer.ID,
			"key":      target.Key,
		})
		return DecisionAlreadyTracking, nil
	}

	stop := autoStop
	if !stop {
		stop, err = r.prompter.Confirm(
			fmt.Sprintf("A timer is running (%s). Stop it and start %s?", timer.Notes, target.Label),
			true,
		)
		if err != nil {
			return DecisionKeepCurrent, err
		}
	}
	if !stop {
		return DecisionKeepCurrent, nil
	}

	if _, err := r.tracker.StopTimer(ctx, timer.ID, rc); err != nil {
		return DecisionKeepCurrent, fmt.Errorf("stopping running timer: %w", err)
	}
	r.logger.Info(ctx, "stopped running timer", map[string]any{"timer_id": timer.ID})
	return DecisionProceed, nil
}

// containsKey reports whether notes mention the ticket key. Substring
// containment, so PROJ-1 also matches notes about PROJ-12.
func containsKey(notes, key string) bool {
	return key != "" && strings.Contains(notes, key)
}
