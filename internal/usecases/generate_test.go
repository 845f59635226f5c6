package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevendejongnl/harv/internal/domain"
)

func newGenerator(tracker *mockTracker, provider *mockProvider, prompter *scriptedPrompter, reporter *recordingReporter, target float64) *Generator {
	g := NewGenerator(tracker, provider, prompter, reporter, nopLogger{}, target)
	g.now = func() time.Time { return time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC) }
	return g
}

func catalogTracker() *mockTracker {
	return &mockTracker{
		projects: []domain.Project{{ID: 10, Name: "Platform"}},
		tasks:    map[int64][]domain.Task{10: {{ID: 20, Name: "Development"}}},
	}
}

const goodResponse = `{"time_entries":[
	{"description":"Fixed login","project_id":10,"task_id":20,"hours":2.5,"confidence":0.9},
	{"description":"Code review","project_id":10,"task_id":20,"hours":1.5}
]}`

func TestGenerateCreatesApprovedEntries(t *testing.T) {
	tracker := catalogTracker()
	provider := &mockProvider{response: goodResponse}
	prompter := &scriptedPrompter{multiSelects: [][]int{{0, 1}}}
	reporter := &recordingReporter{}
	g := newGenerator(tracker, provider, prompter, reporter, 8)

	err := g.Run(context.Background(), GenerateInput{Summary: "worked on login"}, domain.RunContext{})

	require.NoError(t, err)
	require.Len(t, tracker.created, 2)
	assert.Equal(t, "Fixed login", tracker.created[0].Notes)
	assert.Equal(t, "2026-08-31", tracker.created[0].SpentDate)
	assert.Equal(t, 2.5, tracker.created[0].Hours)
	require.Len(t, reporter.successes, 1)
	assert.Contains(t, reporter.successes[0], "Created 2")
}

func TestGenerateRemainingHoursInPrompt(t *testing.T) {
	tracker := catalogTracker()
	tracker.entries = []domain.TimeEntry{{Hours: 4}}
	provider := &mockProvider{response: goodResponse}
	g := newGenerator(tracker, provider, &scriptedPrompter{}, &recordingReporter{}, 8)

	err := g.Run(context.Background(), GenerateInput{Summary: "day", AutoApprove: true}, domain.RunContext{})

	require.NoError(t, err)
	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "4.00")
}

func TestGenerateRemainingNeverNegative(t *testing.T) {
	tracker := catalogTracker()
	tracker.entries = []domain.TimeEntry{{Hours: 10}}
	provider := &mockProvider{response: goodResponse}
	g := newGenerator(tracker, provider, &scriptedPrompter{}, &recordingReporter{}, 8)

	err := g.Run(context.Background(), GenerateInput{Summary: "day", AutoApprove: true}, domain.RunContext{})

	require.NoError(t, err)
	assert.Contains(t, provider.prompts[0], "0.00")
}

func TestGenerateTargetHoursOverride(t *testing.T) {
	tracker := catalogTracker()
	provider := &mockProvider{response: goodResponse}
	g := newGenerator(tracker, provider, &scriptedPrompter{}, &recordingReporter{}, 8)

	err := g.Run(context.Background(), GenerateInput{
		Summary:     "day",
		AutoApprove: true,
		TargetHours: 6,
	}, domain.RunContext{})

	require.NoError(t, err)
	assert.Contains(t, provider.prompts[0], "6.00")
}

func TestGenerateDropsInvalidProposals(t *testing.T) {
	tracker := catalogTracker()
	provider := &mockProvider{response: `{"time_entries":[
		{"description":"good","project_id":10,"task_id":20,"hours":2},
		{"description":"bad project","project_id":99,"task_id":20,"hours":2},
		{"description":"bad hours","project_id":10,"task_id":20,"hours":0}
	]}`}
	reporter := &recordingReporter{}
	g := newGenerator(tracker, provider, &scriptedPrompter{}, reporter, 8)

	err := g.Run(context.Background(), GenerateInput{Summary: "day", AutoApprove: true}, domain.RunContext{})

	require.NoError(t, err)
	require.Len(t, tracker.created, 1)
	assert.Equal(t, "good", tracker.created[0].Notes)
	require.Len(t, reporter.warnings, 1)
	assert.Contains(t, reporter.warnings[0], "Dropped 2")
}

func TestGenerateAllInvalidCleanExit(t *testing.T) {
	tracker := catalogTracker()
	provider := &mockProvider{response: `{"time_entries":[
		{"description":"bad","project_id":99,"task_id":20,"hours":2}
	]}`}
	reporter := &recordingReporter{}
	g := newGenerator(tracker, provider, &scriptedPrompter{}, reporter, 8)

	err := g.Run(context.Background(), GenerateInput{Summary: "day", AutoApprove: true}, domain.RunContext{})

	require.NoError(t, err)
	assert.Empty(t, tracker.created)
	assert.Contains(t, reporter.warnings[len(reporter.warnings)-1], "No valid proposals")
}

func TestGenerateEmptySummaryPrompted(t *testing.T) {
	tracker := catalogTracker()
	provider := &mockProvider{response: goodResponse}
	prompter := &scriptedPrompter{multilines: []string{"wrote tests all day"}}
	g := newGenerator(tracker, provider, prompter, &recordingReporter{}, 8)

	err := g.Run(context.Background(), GenerateInput{AutoApprove: true}, domain.RunContext{})

	require.NoError(t, err)
	assert.Contains(t, provider.prompts[0], "wrote tests all day")
}

func TestGenerateBlankSummaryIsError(t *testing.T) {
	tracker := catalogTracker()
	prompter := &scriptedPrompter{multilines: []string{"   \n  "}}
	g := newGenerator(tracker, &mockProvider{}, prompter, &recordingReporter{}, 8)

	err := g.Run(context.Background(), GenerateInput{}, domain.RunContext{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary is required")
}

func TestGeneratePartialSelection(t *testing.T) {
	tracker := catalogTracker()
	provider := &mockProvider{response: goodResponse}
	prompter := &scriptedPrompter{multiSelects: [][]int{{1}}}
	g := newGenerator(tracker, provider, prompter, &recordingReporter{}, 8)

	err := g.Run(context.Background(), GenerateInput{Summary: "day"}, domain.RunContext{})

	require.NoError(t, err)
	require.Len(t, tracker.created, 1)
	assert.Equal(t, "Code review", tracker.created[0].Notes)
}

func TestGenerateCreateFailuresAggregated(t *testing.T) {
	tracker := catalogTracker()
	tracker.createErr = errBoom
	provider := &mockProvider{response: goodResponse}
	g := newGenerator(tracker, provider, &scriptedPrompter{}, &recordingReporter{}, 8)

	err := g.Run(context.Background(), GenerateInput{Summary: "day", AutoApprove: true}, domain.RunContext{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create 2")
	assert.Contains(t, err.Error(), "Fixed login")
	assert.Contains(t, err.Error(), "Code review")
}

func TestGenerateSkipsProjectsWithoutTasks(t *testing.T) {
	tracker := &mockTracker{
		projects: []domain.Project{
			{ID: 10, Name: "Platform"},
			{ID: 11, Name: "Broken"},
			{ID: 12, Name: "Taskless"},
		},
		tasks:    map[int64][]domain.Task{10: {{ID: 20, Name: "Development"}}},
		tasksErr: map[int64]error{11: errBoom},
	}
	provider := &mockProvider{response: goodResponse}
	g := newGenerator(tracker, provider, &scriptedPrompter{}, &recordingReporter{}, 8)

	err := g.Run(context.Background(), GenerateInput{Summary: "day", AutoApprove: true}, domain.RunContext{})

	require.NoError(t, err)
	assert.Contains(t, provider.prompts[0], "Platform")
	assert.NotContains(t, provider.prompts[0], "Broken")
	assert.NotContains(t, provider.prompts[0], "Taskless")
}

func TestGenerateProviderFailureSurfaces(t *testing.T) {
	tracker := catalogTracker()
	provider := &mockProvider{err: errBoom}
	g := newGenerator(tracker, provider, &scriptedPrompter{}, &recordingReporter{}, 8)

	err := g.Run(context.Background(), GenerateInput{Summary: "day"}, domain.RunContext{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "completing prompt")
}

func TestGenerateDryRun(t *testing.T) {
	tracker := catalogTracker()
	provider := &mockProvider{response: goodResponse}
	reporter := &recordingReporter{}
	g := newGenerator(tracker, provider, &scriptedPrompter{}, reporter, 8)

	err := g.Run(context.Background(), GenerateInput{Summary: "day", AutoApprove: true}, domain.RunContext{DryRun: true})

	require.NoError(t, err)
	require.Len(t, reporter.successes, 1)
	assert.Contains(t, reporter.successes[0], "[dry-run]")
}
