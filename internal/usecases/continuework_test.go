package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevendejongnl/harv/internal/domain"
)

var continueNow = time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)

func newContinueEngine(tracker *mockTracker, prompter *scriptedPrompter, reporter *recordingReporter) *ContinueEngine {
	resolver := NewTimerResolver(tracker, prompter, nopLogger{})
	e := NewContinueEngine(tracker, prompter, resolver, reporter, nopLogger{})
	e.now = func() time.Time { return continueNow }
	return e
}

func resumable(id int64, notes, date string, hours float64) domain.TimeEntry {
	return domain.TimeEntry{
		ID:        id,
		Notes:     notes,
		SpentDate: date,
		Hours:     hours,
		Project:   &domain.ProjectRef{ID: 10, Name: "Platform"},
		Task:      &domain.TaskRef{ID: 20, Name: "Development"},
	}
}

func TestContinueNoCandidatesCleanExit(t *testing.T) {
	tracker := &mockTracker{entries: []domain.TimeEntry{
		{ID: 1, Notes: "running", IsRunning: true, Project: &domain.ProjectRef{ID: 10}, Task: &domain.TaskRef{ID: 20}},
		{ID: 2, Notes: "no project"},
	}}
	reporter := &recordingReporter{}
	e := newContinueEngine(tracker, &scriptedPrompter{}, reporter)

	err := e.Run(context.Background(), ContinueInput{}, domain.RunContext{})

	require.NoError(t, err)
	assert.Empty(t, tracker.restarted)
	require.Len(t, reporter.infos, 1)
	assert.Contains(t, reporter.infos[0], "No entries to continue")
}

func TestContinueRestartPreservesOriginalDate(t *testing.T) {
	tracker := &mockTracker{entries: []domain.TimeEntry{
		resumable(5, "ABC-1 - Fix login", "2026-08-29", 2.5),
	}}
	prompter := &scriptedPrompter{selects: []int{0}}
	reporter := &recordingReporter{}
	e := newContinueEngine(tracker, prompter, reporter)

	err := e.Run(context.Background(), ContinueInput{ModeFlag: domain.ContinueRestart}, domain.RunContext{})

	require.NoError(t, err)
	assert.Equal(t, []int64{5}, tracker.restarted)
	assert.Empty(t, tracker.started)
	require.Len(t, reporter.successes, 1)
	assert.Contains(t, reporter.successes[0], "2026-08-29")
}

func TestContinueNewEntryDatedToday(t *testing.T) {
	tracker := &mockTracker{entries: []domain.TimeEntry{
		resumable(5, "ABC-1 - Fix login", "2026-08-29", 2.5),
	}}
	prompter := &scriptedPrompter{selects: []int{0}}
	e := newContinueEngine(tracker, prompter, &recordingReporter{})

	err := e.Run(context.Background(), ContinueInput{ModeFlag: domain.ContinueNew}, domain.RunContext{})

	require.NoError(t, err)
	assert.Empty(t, tracker.restarted)
	require.Len(t, tracker.started, 1)
	started := tracker.started[0]
	assert.Equal(t, "2026-08-31", started.SpentDate)
	assert.Equal(t, "ABC-1 - Fix login", started.Notes)
	assert.Equal(t, int64(10), started.ProjectID)
	assert.Equal(t, int64(20), started.TaskID)
}

func TestContinueModeFlagBeatsSetting(t *testing.T) {
	tracker := &mockTracker{entries: []domain.TimeEntry{
		resumable(5, "ABC-1 - Fix login", "2026-08-30", 1),
	}}
	prompter := &scriptedPrompter{selects: []int{0}}
	e := newContinueEngine(tracker, prompter, &recordingReporter{})

	err := e.Run(context.Background(), ContinueInput{
		ModeFlag:     domain.ContinueNew,
		SettingsMode: domain.ContinueRestart,
	}, domain.RunContext{})

	require.NoError(t, err)
	assert.Empty(t, tracker.restarted)
	assert.Len(t, tracker.started, 1)
}

func TestContinueSettingBeatsPrompt(t *testing.T) {
	tracker := &mockTracker{entries: []domain.TimeEntry{
		resumable(5, "ABC-1 - Fix login", "2026-08-30", 1),
	}}

	// Only the entry picker runs; no mode prompt is scripted.
	prompter := &scriptedPrompter{selects: []int{0}}
	e := newContinueEngine(tracker, prompter, &recordingReporter{})

	err := e.Run(context.Background(), ContinueInput{SettingsMode: domain.ContinueRestart}, domain.RunContext{})

	require.NoError(t, err)
	assert.Equal(t, []int64{5}, tracker.restarted)
	assert.Len(t, prompter.selectTitles, 1)
}

func TestContinueAsksWhenUnconfigured(t *testing.T) {
	tracker := &mockTracker{entries: []domain.TimeEntry{
		resumable(5, "ABC-1 - Fix login", "2026-08-30", 1),
	}}

	// First select picks the entry, second picks "new entry".
	prompter := &scriptedPrompter{selects: []int{0, 1}}
	e := newContinueEngine(tracker, prompter, &recordingReporter{})

	err := e.Run(context.Background(), ContinueInput{}, domain.RunContext{})

	require.NoError(t, err)
	assert.Len(t, tracker.started, 1)
	assert.Len(t, prompter.selectTitles, 2)
}

func TestContinueLabelsTagOnlyPastDates(t *testing.T) {
	tracker := &mockTracker{entries: []domain.TimeEntry{
		resumable(5, "old work", "2026-08-29", 1),
		resumable(6, "today work", "2026-08-31", 2),
	}}
	prompter := &scriptedPrompter{selects: []int{0}}
	e := newContinueEngine(tracker, prompter, &recordingReporter{})

	err := e.Run(context.Background(), ContinueInput{ModeFlag: domain.ContinueRestart, DaysFlag: 3}, domain.RunContext{})

	require.NoError(t, err)
	require.Len(t, prompter.selectOptions, 1)
	options := prompter.selectOptions[0]
	assert.Contains(t, options[0], "[2026-08-29]")
	assert.NotContains(t, options[1], "[2026-08-31]")
}

func TestContinueConflictStopsOldTimerFirst(t *testing.T) {
	tracker := &mockTracker{
		entries: []domain.TimeEntry{
			resumable(5, "ABC-1 - Fix login", "2026-08-30", 1),
		},
		runningTimer: &domain.TimeEntry{ID: 9, Notes: "DEF-2 - Other", IsRunning: true},
	}
	prompter := &scriptedPrompter{selects: []int{0}, confirms: []bool{true}}
	e := newContinueEngine(tracker, prompter, &recordingReporter{})

	err := e.Run(context.Background(), ContinueInput{ModeFlag: domain.ContinueRestart}, domain.RunContext{})

	require.NoError(t, err)
	assert.Equal(t, []int64{9}, tracker.stopped)
	assert.Equal(t, []int64{5}, tracker.restarted)
}

func TestContinueEntriesFailureSurfaces(t *testing.T) {
	tracker := &mockTracker{entriesErr: errBoom}
	e := newContinueEngine(tracker, &scriptedPrompter{}, &recordingReporter{})

	err := e.Run(context.Background(), ContinueInput{}, domain.RunContext{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing entries")
}
