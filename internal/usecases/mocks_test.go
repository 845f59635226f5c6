package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/stevendejongnl/harv/internal/domain"
)

// errBoom stands in for any remote failure.
var errBoom = errors.New("boom")

// nopLogger discards all log output.
type nopLogger struct{}

func (nopLogger) Info(context.Context, string, map[string]any)         {}
func (nopLogger) Debug(context.Context, string, map[string]any)        {}
func (nopLogger) Warn(context.Context, string, map[string]any)         {}
func (nopLogger) Error(context.Context, string, error, map[string]any) {}

// recordingReporter captures user-facing output lines.
type recordingReporter struct {
	successes []string
	infos     []string
	warnings  []string
	plains    []string
}

func (r *recordingReporter) Successf(format string, args ...any) {
	r.successes = append(r.successes, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Infof(format string, args ...any) {
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Plainf(format string, args ...any) {
	r.plains = append(r.plains, fmt.Sprintf(format, args...))
}

// mockTracker implements domain.TimeTracker with scripted responses and
// records every mutation it receives.
type mockTracker struct {
	runningTimer    *domain.TimeEntry
	runningTimerErr error
	entries         []domain.TimeEntry
	entriesErr      error
	projects        []domain.Project
	projectsErr     error
	tasks           map[int64][]domain.Task
	tasksErr        map[int64]error

	startErr   error
	createErr  error
	stopErr    error
	restartErr error

	started   []domain.StartTimerInput
	created   []domain.CreateEntryInput
	stopped   []int64
	restarted []int64
}

func (m *mockTracker) RunningTimer(context.Context) (*domain.TimeEntry, error) {
	return m.runningTimer, m.runningTimerErr
}

func (m *mockTracker) EntriesForRange(context.Context, string, string) ([]domain.TimeEntry, error) {
	return m.entries, m.entriesErr
}

func (m *mockTracker) StartTimer(_ context.Context, in domain.StartTimerInput, _ domain.RunContext) (*domain.TimeEntry, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	m.started = append(m.started, in)
	return &domain.TimeEntry{ID: 1000, Notes: in.Notes, SpentDate: in.SpentDate, IsRunning: true}, nil
}

func (m *mockTracker) CreateEntry(_ context.Context, in domain.CreateEntryInput, _ domain.RunContext) (*domain.TimeEntry, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, in)
	return &domain.TimeEntry{ID: 2000, Notes: in.Notes, SpentDate: in.SpentDate, Hours: in.Hours}, nil
}

func (m *mockTracker) StopTimer(_ context.Context, id int64, _ domain.RunContext) (*domain.TimeEntry, error) {
	if m.stopErr != nil {
		return nil, m.stopErr
	}
	m.stopped = append(m.stopped, id)
	return &domain.TimeEntry{ID: id}, nil
}

func (m *mockTracker) RestartEntry(_ context.Context, id int64, _ domain.RunContext) (*domain.TimeEntry, error) {
	if m.restartErr != nil {
		return nil, m.restartErr
	}
	m.restarted = append(m.restarted, id)
	return &domain.TimeEntry{ID: id, IsRunning: true}, nil
}

func (m *mockTracker) ActiveProjects(context.Context) ([]domain.Project, error) {
	return m.projects, m.projectsErr
}

func (m *mockTracker) ProjectTasks(_ context.Context, projectID int64) ([]domain.Task, error) {
	if err, ok := m.tasksErr[projectID]; ok {
		return nil, err
	}
	return m.tasks[projectID], nil
}

// mockIssues implements domain.IssueTracker with per-key responses.
type mockIssues struct {
	tickets map[string]*domain.Ticket
	errs    map[string]error
	baseURL string
}

func (m *mockIssues) Issue(_ context.Context, key string) (*domain.Ticket, error) {
	if err, ok := m.errs[key]; ok {
		return nil, err
	}
	if t, ok := m.tickets[key]; ok {
		return t, nil
	}
	return nil, domain.ErrIssueNotFound
}

func (m *mockIssues) IssueURL(key string) string {
	return m.baseURL + "/browse/" + key
}

// mockScanner implements domain.CommitScanner with a fixed commit list.
type mockScanner struct {
	commits []domain.Commit
	err     error
}

func (m *mockScanner) TodayCommits(context.Context, []string) ([]domain.Commit, error) {
	return m.commits, m.err
}

// scriptedPrompter implements domain.Prompter with queued answers and
// records the prompts it was shown.
type scriptedPrompter struct {
	selects      []int
	confirms     []bool
	multiSelects [][]int
	inputs       []string
	multilines   []string
	err          error

	selectTitles  []string
	selectOptions [][]string
	confirmTitles []string
}

func (p *scriptedPrompter) Select(title string, options []string) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.selectTitles = append(p.selectTitles, title)
	p.selectOptions = append(p.selectOptions, options)
	answer := p.selects[0]
	p.selects = p.selects[1:]
	return answer, nil
}

func (p *scriptedPrompter) FuzzySelect(title string, options []string) (int, error) {
	return p.Select(title, options)
}

func (p *scriptedPrompter) Confirm(title string, _ bool) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	p.confirmTitles = append(p.confirmTitles, title)
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

func (p *scriptedPrompter) MultiSelect(string, []string, []bool) ([]int, error) {
	if p.err != nil {
		return nil, p.err
	}
	answer := p.multiSelects[0]
	p.multiSelects = p.multiSelects[1:]
	return answer, nil
}

func (p *scriptedPrompter) Input(string, string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	return answer, nil
}

func (p *scriptedPrompter) Multiline(string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	answer := p.multilines[0]
	p.multilines = p.multilines[1:]
	return answer, nil
}

// mockProvider implements domain.Provider with a canned response.
type mockProvider struct {
	response string
	err      error
	prompts  []string
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// mockUsage implements UsageRecorder without touching disk.
type mockUsage struct {
	recorded [][2]int64
	saveErr  error
}

func (m *mockUsage) Record(projectID, taskID int64) {
	m.recorded = append(m.recorded, [2]int64{projectID, taskID})
}

func (m *mockUsage) Save() error { return m.saveErr }

func (m *mockUsage) SortProjects(ids []int64) []int64 { return ids }

func (m *mockUsage) SortTasks(_ int64, ids []int64) []int64 { return ids }
