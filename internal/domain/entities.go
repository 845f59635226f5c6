// Package domain defines the core business entities and interfaces for harv.
// This package contains no external dependencies and represents the innermost
// layer of the application.
package domain

import (
	"fmt"
	"time"
)

// Commit is a single git commit discovered by the scanner.
// Identity is the content hash; the scanner deduplicates by Hash so a
// commit reachable from several branches is reported once.
type Commit struct {
	// Hash is the full commit SHA.
	Hash string

	// Message is the full commit message.
	Message string

	// Author is the commit author's name.
	Author string

	// Timestamp is the committer time of the commit.
	Timestamp time.Time

	// Branch is the branch the commit was first seen on.
	Branch string
}

// Ticket is an issue-tracker item referenced from commit messages.
// When remote enrichment fails the ticket becomes a placeholder: the key is
// kept and FetchErr carries a human-readable reason. Placeholders remain
// selectable so one failing lookup never hides the others.
type Ticket struct {
	Key     string
	Summary string
	Status  string

	// FetchErr is non-empty when enrichment failed for this key.
	FetchErr string
}

// Placeholder reports whether remote enrichment failed for this ticket.
func (t Ticket) Placeholder() bool {
	return t.FetchErr != ""
}

// Label renders the ticket for selection lists.
func (t Ticket) Label() string {
	if t.Placeholder() {
		return fmt.Sprintf("%s - (lookup failed: %s)", t.Key, t.FetchErr)
	}
	if t.Status != "" {
		return fmt.Sprintf("%s - %s [%s]", t.Key, t.Summary, t.Status)
	}
	return fmt.Sprintf("%s - %s", t.Key, t.Summary)
}

// ProjectRef identifies the project a time entry belongs to.
type ProjectRef struct {
	ID   int64
	Name string
}

// TaskRef identifies the task a time entry belongs to.
type TaskRef struct {
	ID   int64
	Name string
}

// Project is an active time-tracking project the user may book time on.
type Project struct {
	ID   int64
	Name string
	Code string
}

// Task is a bookable task within a project.
type Task struct {
	ID   int64
	Name string
}

// TimeEntry is a record of work held by the time-tracking service.
// A running entry (IsRunning == true) is a timer; at most one may run
// remotely at a time, which must be re-checked before every mutation.
type TimeEntry struct {
	ID        int64
	SpentDate string
	Hours     float64
	Notes     string
	IsRunning bool
	Project   *ProjectRef
	Task      *TaskRef

	// StartedTime is the wall-clock start of a running timer, as reported
	// by the service (e.g. "8:32am"). Empty for stopped entries.
	StartedTime string
}

// ExternalReference links a time entry back to the issue tracker.
type ExternalReference struct {
	ID        string
	GroupID   string
	Permalink string
}

// StartTimerInput describes a running time entry to create.
// ProjectID and TaskID of zero are omitted from the request, letting the
// service apply its own defaults.
type StartTimerInput struct {
	Notes     string
	ProjectID int64
	TaskID    int64
	SpentDate string
	Reference *ExternalReference
}

// CreateEntryInput describes a stopped time entry to create.
type CreateEntryInput struct {
	Notes     string
	ProjectID int64
	TaskID    int64
	SpentDate string
	Hours     float64
}

// ProposedEntry is a time entry suggested by an AI provider. It only
// becomes a TimeEntry once validated and approved.
type ProposedEntry struct {
	Description string
	ProjectID   int64
	TaskID      int64
	Hours       float64

	// Confidence is the provider's certainty in [0,1], nil when omitted.
	Confidence *float64
}

// RunContext carries the ephemeral per-invocation flags. It is passed
// explicitly to every component that performs I/O and is never persisted.
type RunContext struct {
	DryRun  bool
	Verbose bool
	Quiet   bool
}

// Continue modes for resuming past entries.
const (
	// ContinueRestart restarts the chosen entry in place: hours reset,
	// spent date preserved.
	ContinueRestart = "restart"

	// ContinueNew creates a fresh running entry dated today with the same
	// project, task and notes.
	ContinueNew = "new"

	// ContinueAsk prompts the user to choose between the two.
	ContinueAsk = "ask"
)

// DateFormat is the wire format for spent dates.
const DateFormat = "2006-01-02"
