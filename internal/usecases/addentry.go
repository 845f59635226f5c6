package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/stevendejongnl/harv/internal/domain"
	"github.com/stevendejongnl/harv/internal/timefmt"
)

// maxBackdateDays bounds how far back a custom date may lie.
const maxBackdateDays = 90

// UsageRecorder remembers which project/task pairs get booked so the
// pickers can order frequent choices first.
type UsageRecorder interface {
	Record(projectID, taskID int64)
	Save() error
	SortProjects(ids []int64) []int64
	SortTasks(projectID int64, ids []int64) []int64
}

// Adder drives the interactive manual entry flow.
type Adder struct {
	tracker  domain.TimeTracker
	prompter domain.Prompter
	resolver *TimerResolver
	usage    UsageRecorder
	reporter Reporter
	logger   Logger
	now      func() time.Time
}

// NewAdder creates an Adder.
func NewAdder(
	tracker domain.TimeTracker,
	prompter domain.Prompter,
	resolver *TimerResolver,
	usageRec UsageRecorder,
	reporter Reporter,
	log Logger,
) *Adder {
	return &Adder{
		tracker:  tracker,
		prompter: prompter,
		resolver: resolver,
		usage:    usageRec,
		reporter: reporter,
		logger:   log,
		now:      time.Now,
	}
}

// Run executes the add flow.
func (a *Adder) Run(ctx context.Context, rc domain.RunContext) error {
	kind, err := a.prompter.Select("What do you want to add?", []string{
		"Start a timer",
		"Log completed time",
	})
	if err != nil {
		return err
	}
	running := kind == 0

	date, err := a.pickDate()
	if err != nil {
		return err
	}

	projectID, projectName, err := a.pickProject(ctx)
	if err != nil {
		return err
	}
	taskID, taskName, err := a.pickTask(ctx, projectID)
	if err != nil {
		return err
	}

	notes, err := a.prompter.Input("Description:", "")
	if err != nil {
		return err
	}

	var hours float64
	if !running {
		hours, err = a.pickHours()
		if err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%s > %s on %s: %s", projectName, taskName, date, notes)
	if !running {
		summary = fmt.Sprintf("%s (%.2fh)", summary, hours)
	}
	ok, err := a.prompter.Confirm(fmt.Sprintf("Create %s?", summary), true)
	if err != nil {
		return err
	}
	if !ok {
		a.reporter.Infof("Cancelled.")
		return nil
	}

	if running {
		decision, err := a.resolver.Resolve(ctx, ConflictTarget{Key: notes, Label: notes}, false, rc)
		if err != nil {
			return err
		}
		if decision == DecisionKeepCurrent || decision == DecisionAlreadyTracking {
			a.reporter.Infof("Keeping the current timer.")
			return nil
		}
		_, err = a.tracker.StartTimer(ctx, domain.StartTimerInput{
			Notes:     notes,
			ProjectID: projectID,
			TaskID:    taskID,
			SpentDate: date,
		}, rc)
		if err != nil {
			return fmt.Errorf("starting timer: %w", err)
		}
	} else {
		_, err = a.tracker.CreateEntry(ctx, domain.CreateEntryInput{
			Notes:     notes,
			ProjectID: projectID,
			TaskID:    taskID,
			SpentDate: date,
			Hours:     hours,
		}, rc)
		if err != nil {
			return fmt.Errorf("creating entry: %w", err)
		}
	}

	if rc.DryRun {
		a.reporter.Successf("[dry-run] Would add: %s", summary)
		return nil
	}

	a.usage.Record(projectID, taskID)
	if err := a.usage.Save(); err != nil {
		a.logger.Warn(ctx, "could not save usage cache", map[string]any{"error": err.Error()})
	}

	a.reporter.Successf("Added: %s", summary)
	a.showDayTotal(ctx, date)
	return nil
}

// pickDate offers today, the six previous days and a custom date. Custom
// dates may lie at most maxBackdateDays in the past and never in the
// future.
func (a *Adder) pickDate() (string, error) {
	now := a.now()
	options := make([]string, 0, 8)
	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, -i)
		date := day.Format(domain.DateFormat)
		dates = append(dates, date)
		switch i {
		case 0:
			options = append(options, fmt.Sprintf("Today (%s)", date))
		case 1:
			options = append(options, fmt.Sprintf("Yesterday (%s)", date))
		default:
			options = append(options, fmt.Sprintf("%s (%s)", day.Weekday(), date))
		}
	}
	options = append(options, "Custom date...")

	idx, err := a.prompter.Select("Which day?", options)
	if err != nil {
		return "", err
	}
	if idx < len(dates) {
		return dates[idx], nil
	}

	raw, err := a.prompter.Input("Date (YYYY-MM-DD):", "")
	if err != nil {
		return "", err
	}
	day, err := time.ParseInLocation(domain.DateFormat, raw, now.Location())
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	if day.After(now) {
		return "", fmt.Errorf("date %s is in the future", raw)
	}
	if now.Sub(day) > maxBackdateDays*24*time.Hour {
		return "", fmt.Errorf("date %s is more than %d days ago", raw, maxBackdateDays)
	}
	return day.Format(domain.DateFormat), nil
}

func (a *Adder) pickProject(ctx context.Context) (int64, string, error) {
	projects, err := a.tracker.ActiveProjects(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("listing projects: %w", err)
	}
	if len(projects) == 0 {
		return 0, "", fmt.Errorf("no bookable projects available")
	}

	byID := make(map[int64]domain.Project, len(projects))
	ids := make([]int64, 0, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	ids = a.usage.SortProjects(ids)

	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		p := byID[id]
		label := p.Name
		if p.Code != "" {
			label = fmt.Sprintf("[%s] %s", p.Code, p.Name)
		}
		labels = append(labels, label)
	}
	idx, err := a.prompter.FuzzySelect("Project:", labels)
	if err != nil {
		return 0, "", err
	}
	chosen := byID[ids[idx]]
	return chosen.ID, chosen.Name, nil
}

func (a *Adder) pickTask(ctx context.Context, projectID int64) (int64, string, error) {
	tasks, err := a.tracker.ProjectTasks(ctx, projectID)
	if err != nil {
		return 0, "", fmt.Errorf("listing tasks: %w", err)
	}
	if len(tasks) == 0 {
		return 0, "", fmt.Errorf("project has no bookable tasks")
	}

	byID := make(map[int64]domain.Task, len(tasks))
	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}
	ids = a.usage.SortTasks(projectID, ids)

	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, byID[id].Name)
	}
	idx, err := a.prompter.FuzzySelect("Task:", labels)
	if err != nil {
		return 0, "", err
	}
	chosen := byID[ids[idx]]
	return chosen.ID, chosen.Name, nil
}

// pickHours asks until the input parses, so a typo does not restart the
// whole flow.
func (a *Adder) pickHours() (float64, error) {
	for {
		raw, err := a.prompter.Input("Hours (e.g. 1.5 or 1:30):", "")
		if err != nil {
			return 0, err
		}
		hours, err := timefmt.ParseHours(raw)
		if err == nil {
			return hours, nil
		}
		a.reporter.Warnf("%v", err)
	}
}

func (a *Adder) showDayTotal(ctx context.Context, date string) {
	entries, err := a.tracker.EntriesForRange(ctx, date, date)
	if err != nil {
		a.logger.Warn(ctx, "could not refresh totals", map[string]any{"error": err.Error()})
		return
	}
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	a.reporter.Plainf("Total for %s: %.2fh", date, total)
}
