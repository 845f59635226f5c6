package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stevendejongnl/harv/internal/domain"
	"github.com/stevendejongnl/harv/internal/ticket"
)

// SyncInput carries the per-run settings for the sync flow.
type SyncInput struct {
	RepoPaths        []string
	AutoStart        bool
	AutoStop         bool
	AutoSelectSingle bool
}

// Syncer drives the main flow: scan git, extract ticket keys, enrich via
// the issue tracker, pick one, resolve any timer conflict and start a
// timer for it.
type Syncer struct {
	scanner  domain.CommitScanner
	issues   domain.IssueTracker
	tracker  domain.TimeTracker
	prompter domain.Prompter
	matcher  *ticket.Matcher
	resolver *TimerResolver
	reporter Reporter
	logger   Logger
	now      func() time.Time
}

// NewSyncer creates a Syncer.
func NewSyncer(
	scanner domain.CommitScanner,
	issues domain.IssueTracker,
	tracker domain.TimeTracker,
	prompter domain.Prompter,
	matcher *ticket.Matcher,
	resolver *TimerResolver,
	reporter Reporter,
	log Logger,
) *Syncer {
	return &Syncer{
		scanner:  scanner,
		issues:   issues,
		tracker:  tracker,
		prompter: prompter,
		matcher:  matcher,
		resolver: resolver,
		reporter: reporter,
		logger:   log,
		now:      time.Now,
	}
}

// Run executes the sync flow. Finding no commits or no ticket keys is a
// clean exit, not an error.
func (s *Syncer) Run(ctx context.Context, in SyncInput, rc domain.RunContext) error {
	commits, err := s.scanner.TodayCommits(ctx, in.RepoPaths)
	if err != nil {
		return fmt.Errorf("scanning repositories: %w", err)
	}
	s.logger.Debug(ctx, "collected commits", map[string]any{"count": len(commits)})

	messages := make([]string, 0, len(commits))
	for _, c := range commits {
		messages = append(messages, c.Message)
	}
	keys := s.matcher.ExtractAll(messages)
	if len(keys) == 0 {
		s.reporter.Infof("No ticket references found in today's commits.")
		return nil
	}

	tickets := s.enrich(ctx, keys)
	chosen, err := s.choose(tickets, in)
	if err != nil {
		return err
	}

	target := ConflictTarget{Key: chosen.Key, Label: chosen.Key}
	decision, err := s.resolver.Resolve(ctx, target, in.AutoStop, rc)
	if err != nil {
		return err
	}
	switch decision {
	case DecisionAlreadyTracking:
		s.reporter.Infof("Already tracking %s.", chosen.Key)
		return nil
	case DecisionKeepCurrent:
		s.reporter.Infof("Keeping the current timer.")
		return nil
	}

	notes := notesFor(chosen)
	entry, err := s.tracker.StartTimer(ctx, domain.StartTimerInput{
		Notes:     notes,
		SpentDate: today(s.now),
		Reference: &domain.ExternalReference{
			ID:        chosen.Key,
			GroupID:   "jira",
			Permalink: s.issues.IssueURL(chosen.Key),
		},
	}, rc)
	if err != nil {
		return fmt.Errorf("starting timer: %w", err)
	}

	if rc.DryRun {
		s.reporter.Successf("[dry-run] Would start timer: %s", notes)
		return nil
	}
	s.logger.Info(ctx, "started timer", map[string]any{"entry_id": entry.ID, "key": chosen.Key})
	s.reporter.Successf("Started timer: %s", notes)
	return nil
}

// enrich resolves every key against the issue tracker. A failed lookup
// becomes a placeholder so the rest of the batch survives.
func (s *Syncer) enrich(ctx context.Context, keys []string) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(keys))
	for _, key := range keys {
		t, err := s.issues.Issue(ctx, key)
		if err != nil {
			reason := classifyLookup(err)
			s.logger.Warn(ctx, "ticket lookup failed", map[string]any{
				"key":    key,
				"reason": reason,
			})
			tickets = append(tickets, domain.Ticket{Key: key, FetchErr: reason})
			continue
		}
		tickets = append(tickets, *t)
	}
	return tickets
}

func classifyLookup(err error) string {
	switch {
	case errors.Is(err, domain.ErrIssueNotFound):
		return "not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return "authentication failed"
	case errors.Is(err, domain.ErrForbidden):
		return "access denied"
	default:
		return "lookup error"
	}
}

// choose picks one ticket: first key when auto-start is on, the single
// ticket when auto-select is on, otherwise an interactive selection with
// successfully enriched tickets listed before placeholders.
func (s *Syncer) choose(tickets []domain.Ticket, in SyncInput) (domain.Ticket, error) {
	if in.AutoStart {
		return tickets[0], nil
	}
	if len(tickets) == 1 && in.AutoSelectSingle {
		return tickets[0], nil
	}

	ordered := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !t.Placeholder() {
			ordered = append(ordered, t)
		}
	}
	for _, t := range tickets {
		if t.Placeholder() {
			ordered = append(ordered, t)
		}
	}

	labels := make([]string, 0, len(ordered))
	for _, t := range ordered {
		labels = append(labels, t.Label())
	}
	idx, err := s.prompter.Select("Which ticket are you working on?", labels)
	if err != nil {
		return domain.Ticket{}, err
	}
	return ordered[idx], nil
}
