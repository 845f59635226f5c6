package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stevendejongnl/harv/internal/domain"
)

// GenerateInput carries the per-run settings for the generate flow.
type GenerateInput struct {
	// Summary of the day's work; prompted interactively when empty.
	Summary string

	// AutoApprove creates every validated proposal without the
	// multi-select step.
	AutoApprove bool

	// TargetHours overrides the configured target when positive.
	TargetHours float64
}

// Generator runs the AI proposal pipeline: summary in, validated and
// approved time entries out.
type Generator struct {
	tracker     domain.TimeTracker
	provider    domain.Provider
	prompter    domain.Prompter
	reporter    Reporter
	logger      Logger
	targetHours float64
	now         func() time.Time
}

// NewGenerator creates a Generator. targetHours is the configured daily
// target, overridable per run via GenerateInput.
func NewGenerator(
	tracker domain.TimeTracker,
	provider domain.Provider,
	prompter domain.Prompter,
	reporter Reporter,
	log Logger,
	targetHours float64,
) *Generator {
	return &Generator{
		tracker:     tracker,
		provider:    provider,
		prompter:    prompter,
		reporter:    reporter,
		logger:      log,
		targetHours: targetHours,
		now:         time.Now,
	}
}

// Run executes the proposal pipeline.
func (g *Generator) Run(ctx context.Context, in GenerateInput, rc domain.RunContext) error {
	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		var err error
		summary, err = g.prompter.Multiline("Describe today's work:")
		if err != nil {
			return err
		}
		summary = strings.TrimSpace(summary)
	}
	if summary == "" {
		return fmt.Errorf("a work summary is required to generate entries")
	}

	catalog, err := g.buildCatalog(ctx)
	if err != nil {
		return err
	}
	if len(catalog) == 0 {
		return fmt.Errorf("no bookable projects available")
	}

	date := today(g.now)
	entries, err := g.tracker.EntriesForRange(ctx, date, date)
	if err != nil {
		return fmt.Errorf("listing today's entries: %w", err)
	}
	var logged float64
	for _, e := range entries {
		logged += e.Hours
	}

	target := g.targetHours
	if in.TargetHours > 0 {
		target = in.TargetHours
	}
	remaining := target - logged
	if remaining < 0 {
		remaining = 0
	}
	g.logger.Debug(ctx, "computed remaining hours", map[string]any{
		"target":    target,
		"logged":    logged,
		"remaining": remaining,
	})

	promptText, err := buildPrompt(summary, catalog, remaining)
	if err != nil {
		return err
	}

	g.reporter.Infof("Asking %s for proposals...", g.provider.Name())
	raw, err := g.provider.Complete(ctx, promptText)
	if err != nil {
		return fmt.Errorf("completing prompt with %s: %w", g.provider.Name(), err)
	}

	proposals, err := parseProposals(raw)
	if err != nil {
		return fmt.Errorf("parsing %s response: %w", g.provider.Name(), err)
	}
	proposals = dedupeProposals(proposals)

	valid, droppedList := validateProposals(proposals, catalog)
	for _, p := range droppedList {
		g.logger.Warn(ctx, "dropped invalid proposal", map[string]any{
			"description": p.Description,
			"project_id":  p.ProjectID,
			"task_id":     p.TaskID,
			"hours":       p.Hours,
		})
	}
	if len(droppedList) > 0 {
		g.reporter.Warnf("Dropped %d invalid proposal(s).", len(droppedList))
	}
	if len(valid) == 0 {
		g.reporter.Warnf("No valid proposals to create.")
		return nil
	}

	approved, err := g.approve(valid, catalog, in.AutoApprove)
	if err != nil {
		return err
	}
	if len(approved) == 0 {
		g.reporter.Infof("Nothing approved.")
		return nil
	}

	created, failures := g.createEntries(ctx, approved, date, rc)
	if rc.DryRun {
		g.reporter.Successf("[dry-run] Would create %d entr(y/ies).", created)
		return nil
	}
	if created > 0 {
		g.reporter.Successf("Created %d entr(y/ies).", created)
		g.showNewTotal(ctx, date, logged)
	}
	if len(failures) > 0 {
		return fmt.Errorf("failed to create %d entr(y/ies):\n  - %s",
			len(failures), strings.Join(failures, "\n  - "))
	}
	return nil
}

// buildCatalog fetches active projects and their tasks. A project whose
// task list cannot be fetched is skipped with a warning.
func (g *Generator) buildCatalog(ctx context.Context) ([]catalogProject, error) {
	projects, err := g.tracker.ActiveProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	catalog := make([]catalogProject, 0, len(projects))
	for _, p := range projects {
		tasks, err := g.tracker.ProjectTasks(ctx, p.ID)
		if err != nil {
			g.logger.Warn(ctx, "skipping project, tasks unavailable", map[string]any{
				"project_id": p.ID,
				"error":      err.Error(),
			})
			continue
		}
		if len(tasks) == 0 {
			continue
		}
		catalog = append(catalog, catalogProject{ID: p.ID, Name: p.Name, Tasks: tasks})
	}
	return catalog, nil
}

// approve asks the user which proposals to keep, unless auto-approve is
// set. All proposals start pre-checked.
func (g *Generator) approve(proposals []domain.ProposedEntry, catalog []catalogProject, auto bool) ([]domain.ProposedEntry, error) {
	if auto {
		return proposals, nil
	}

	names := make(map[int64]string, len(catalog))
	for _, p := range catalog {
		names[p.ID] = p.Name
	}

	var total float64
	labels := make([]string, 0, len(proposals))
	defaults := make([]bool, len(proposals))
	for i, p := range proposals {
		total += p.Hours
		label := fmt.Sprintf("%s — %s (%.2fh", p.Description, names[p.ProjectID], p.Hours)
		if p.Confidence != nil {
			label += fmt.Sprintf(", %.0f%% confident", *p.Confidence*100)
		}
		label += ")"
		labels = append(labels, label)
		defaults[i] = true
	}
	g.reporter.Plainf("Proposed total: %.2fh", total)

	indexes, err := g.prompter.MultiSelect("Create which entries?", labels, defaults)
	if err != nil {
		return nil, err
	}
	approved := make([]domain.ProposedEntry, 0, len(indexes))
	for _, idx := range indexes {
		approved = append(approved, proposals[idx])
	}
	return approved, nil
}

// createEntries writes the approved proposals as stopped entries for the
// given date. Failures are collected so one bad entry does not abandon
// the rest of the batch.
func (g *Generator) createEntries(ctx context.Context, approved []domain.ProposedEntry, date string, rc domain.RunContext) (int, []string) {
	var created int
	var failures []string
	for _, p := range approved {
		_, err := g.tracker.CreateEntry(ctx, domain.CreateEntryInput{
			Notes:     p.Description,
			ProjectID: p.ProjectID,
			TaskID:    p.TaskID,
			SpentDate: date,
			Hours:     p.Hours,
		}, rc)
		if err != nil {
			g.logger.Error(ctx, "failed to create entry", err, map[string]any{
				"description": p.Description,
			})
			failures = append(failures, fmt.Sprintf("%s: %v", p.Description, err))
			continue
		}
		created++
	}
	return created, failures
}

func (g *Generator) showNewTotal(ctx context.Context, date string, previousLogged float64) {
	entries, err := g.tracker.EntriesForRange(ctx, date, date)
	if err != nil {
		g.logger.Warn(ctx, "could not refresh totals", map[string]any{"error": err.Error()})
		return
	}
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	g.reporter.Plainf("Total today: %.2fh (was %.2fh)", total, previousLogged)
}
