// Package usecases contains the application flows: sync, status, stop,
// continue, generate and add. Each flow consumes the domain collaborator
// interfaces so every external system can be substituted in tests.
package usecases

import (
	"context"
	"time"

	"github.com/stevendejongnl/harv/internal/domain"
)

// Logger defines the logging interface for the use cases.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]any)
	Debug(ctx context.Context, msg string, fields map[string]any)
	Warn(ctx context.Context, msg string, fields map[string]any)
	Error(ctx context.Context, msg string, err error, fields map[string]any)
}

// Reporter prints user-facing results. It is separate from the Logger:
// log lines are diagnostics, reporter lines are the command's answer.
type Reporter interface {
	Successf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Plainf(format string, args ...any)
}

func today(now func() time.Time) string {
	return now().Format(domain.DateFormat)
}

// notesFor renders the time entry notes for a ticket: "KEY - Summary",
// or just the key when enrichment failed.
func notesFor(t domain.Ticket) string {
	if t.Placeholder() || t.Summary == "" {
		return t.Key
	}
	return t.Key + " - " + t.Summary
}
