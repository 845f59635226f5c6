package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevendejongnl/harv/internal/domain"
)

func newStatusViewer(tracker *mockTracker, reporter *recordingReporter) *StatusViewer {
	s := NewStatusViewer(tracker, reporter, nopLogger{})
	s.now = func() time.Time { return time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC) }
	return s
}

func TestStatusNoTimerNoEntries(t *testing.T) {
	reporter := &recordingReporter{}
	s := newStatusViewer(&mockTracker{}, reporter)

	err := s.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, reporter.infos, 2)
	assert.Contains(t, reporter.infos[0], "No timer running")
	assert.Contains(t, reporter.infos[1], "No entries")
}

func TestStatusRunningTimerAndTotal(t *testing.T) {
	tracker := &mockTracker{
		runningTimer: &domain.TimeEntry{ID: 7, Notes: "ABC-1 - Fix login", Hours: 1.25, IsRunning: true, StartedTime: "9:02am"},
		entries: []domain.TimeEntry{
			{Notes: "ABC-1 - Fix login", Hours: 1.25, IsRunning: true},
			{Notes: "standup", Hours: 0.5},
		},
	}
	reporter := &recordingReporter{}
	s := newStatusViewer(tracker, reporter)

	err := s.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, reporter.successes, 1)
	assert.Contains(t, reporter.successes[0], "since 9:02am")
	require.NotEmpty(t, reporter.plains)
	assert.Contains(t, reporter.plains[len(reporter.plains)-1], "Total today: 1.75h")
}

func TestStatusTrackerFailure(t *testing.T) {
	tracker := &mockTracker{runningTimerErr: errBoom}
	s := newStatusViewer(tracker, &recordingReporter{})

	err := s.Run(context.Background())

	require.Error(t, err)
}
