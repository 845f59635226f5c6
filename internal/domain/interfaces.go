// Package domain defines the core business entities and interfaces for harv.
package domain

import (
	"context"
	"errors"
)

// Domain errors. Issue-tracker lookups distinguish the three recoverable
// cases so enrichment can substitute a placeholder with a useful message.
var (
	// ErrIssueNotFound indicates the ticket key does not exist remotely.
	ErrIssueNotFound = errors.New("issue not found")

	// ErrUnauthorized indicates the issue-tracker credentials were rejected.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrForbidden indicates the credentials lack access to the issue.
	ErrForbidden = errors.New("access denied")

	// ErrUserCancelled indicates the user aborted an interactive prompt.
	ErrUserCancelled = errors.New("operation cancelled by user")
)

// CommitScanner walks local git repositories for today's commits.
type CommitScanner interface {
	// TodayCommits returns the merged commit set across all repositories,
	// deduplicated by commit hash and sorted newest-first. An empty path
	// list means the current working directory. A repository that cannot
	// be opened or has no commits today is skipped with a warning; one
	// bad repository never aborts the scan.
	TodayCommits(ctx context.Context, repoPaths []string) ([]Commit, error)
}

// IssueTracker resolves ticket keys to remote issue metadata.
type IssueTracker interface {
	// Issue fetches summary and status for a ticket key. Failures are
	// classified: ErrIssueNotFound, ErrUnauthorized and ErrForbidden wrap
	// the respective remote responses.
	Issue(ctx context.Context, key string) (*Ticket, error)

	// IssueURL returns the browse URL for a ticket key.
	IssueURL(key string) string
}

// TimeTracker is the time-tracking remote service. Every mutating call
// takes the RunContext and suppresses the network write in dry-run mode
// while still reporting what would happen.
type TimeTracker interface {
	// RunningTimer returns the currently running entry, or nil when no
	// timer is running.
	RunningTimer(ctx context.Context) (*TimeEntry, error)

	// EntriesForRange lists entries with spent date in [from, to], both
	// in DateFormat.
	EntriesForRange(ctx context.Context, from, to string) ([]TimeEntry, error)

	// StartTimer creates a running entry.
	StartTimer(ctx context.Context, in StartTimerInput, rc RunContext) (*TimeEntry, error)

	// CreateEntry creates a stopped entry with explicit hours.
	CreateEntry(ctx context.Context, in CreateEntryInput, rc RunContext) (*TimeEntry, error)

	// StopTimer stops the running entry with the given id.
	StopTimer(ctx context.Context, id int64, rc RunContext) (*TimeEntry, error)

	// RestartEntry resumes the entry with the given id in place: accrual
	// restarts and the original spent date is preserved.
	RestartEntry(ctx context.Context, id int64, rc RunContext) (*TimeEntry, error)

	// ActiveProjects lists projects the user may book time on.
	ActiveProjects(ctx context.Context) ([]Project, error)

	// ProjectTasks lists bookable tasks for one project.
	ProjectTasks(ctx context.Context, projectID int64) ([]Task, error)
}

// Prompter is the interactive terminal seam. All user interaction goes
// through this interface so flows can be exercised in tests with a
// scripted responder. Implementations return ErrUserCancelled when the
// user aborts.
type Prompter interface {
	// Select picks one option by index.
	Select(title string, options []string) (int, error)

	// FuzzySelect picks one option by index from a type-to-search list.
	FuzzySelect(title string, options []string) (int, error)

	// Confirm asks a yes/no question.
	Confirm(title string, def bool) (bool, error)

	// MultiSelect picks any number of options; defaults pre-checks them.
	MultiSelect(title string, options []string, defaults []bool) ([]int, error)

	// Input captures a single line of text.
	Input(title, def string) (string, error)

	// Multiline captures free-form multi-line text.
	Multiline(title string) (string, error)
}

// Provider is an AI completion backend: submit a prompt, get raw text.
// Providers perform no retries; their errors surface as-is.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}
