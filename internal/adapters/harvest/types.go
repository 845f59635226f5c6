package harvest

import "github.com/stevendejongnl/harv/internal/domain"

// Wire types for the Harvest v2 API. Only the fields the application
// reads are declared.

type timeEntry struct {
	ID        int64   `json:"id"`
	SpentDate string  `json:"spent_date"`
	Hours     float64 `json:"hours"`
	Notes     string  `json:"notes"`
	IsRunning bool    `json:"is_running"`
	Project   *idName `json:"project"`
	Task      *idName `json:"task"`
	Started   string  `json:"started_time"`
}

type idName struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type timeEntriesPage struct {
	TimeEntries []timeEntry `json:"time_entries"`
}

type project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type projectsPage struct {
	Projects []project `json:"projects"`
}

type projectAssignment struct {
	Project         project          `json:"project"`
	TaskAssignments []taskAssignment `json:"task_assignments"`
}

type projectAssignmentsPage struct {
	ProjectAssignments []projectAssignment `json:"project_assignments"`
}

type taskAssignment struct {
	Task idName `json:"task"`
}

type taskAssignmentsPage struct {
	TaskAssignments []taskAssignment `json:"task_assignments"`
}

type externalReference struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	Permalink string `json:"permalink"`
}

// createEntryRequest covers both running and stopped entry creation.
// Zero project/task ids are omitted so Harvest applies account defaults.
type createEntryRequest struct {
	Notes             string             `json:"notes"`
	ProjectID         int64              `json:"project_id,omitempty"`
	TaskID            int64              `json:"task_id,omitempty"`
	SpentDate         string             `json:"spent_date"`
	Hours             *float64           `json:"hours,omitempty"`
	ExternalReference *externalReference `json:"external_reference,omitempty"`
}

func (e timeEntry) toDomain() domain.TimeEntry {
	out := domain.TimeEntry{
		ID:          e.ID,
		SpentDate:   e.SpentDate,
		Hours:       e.Hours,
		Notes:       e.Notes,
		IsRunning:   e.IsRunning,
		StartedTime: e.Started,
	}
	if e.Project != nil {
		out.Project = &domain.ProjectRef{ID: e.Project.ID, Name: e.Project.Name}
	}
	if e.Task != nil {
		out.Task = &domain.TaskRef{ID: e.Task.ID, Name: e.Task.Name}
	}
	return out
}
