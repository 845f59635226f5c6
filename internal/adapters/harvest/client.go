// Package harvest implements the domain.TimeTracker interface against the
// Harvest v2 REST API.
package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/stevendejongnl/harv/internal/domain"
)

// DefaultBaseURL is the production Harvest API endpoint.
const DefaultBaseURL = "https://api.harvestapp.com/v2"

const userAgent = "harv (https://github.com/stevendejongnl/harv)"

// Logger defines the logging interface for the Harvest client.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]any)
	Warn(ctx context.Context, msg string, fields map[string]any)
}

// Client talks to the Harvest v2 API. Mutating calls honor
// domain.RunContext.DryRun: the request is skipped and a synthetic entry
// describing the would-be result is returned instead.
type Client struct {
	baseURL   string
	token     string
	accountID string
	http      *http.Client
	logger    Logger
}

// NewClient builds a Client with retrying transport.
func NewClient(baseURL, token, accountID string, log Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	return &Client{
		baseURL:   baseURL,
		token:     token,
		accountID: accountID,
		http:      rc.StandardClient(),
		logger:    log,
	}
}

// RunningTimer returns the currently running entry, nil when none.
func (c *Client) RunningTimer(ctx context.Context) (*domain.TimeEntry, error) {
	q := url.Values{"is_running": {"true"}}
	var page timeEntriesPage
	if err := c.get(ctx, "/time_entries", q, &page); err != nil {
		return nil, err
	}
	if len(page.TimeEntries) == 0 {
		return nil, nil
	}
	entry := page.TimeEntries[0].toDomain()
	return &entry, nil
}

// EntriesForRange lists entries with spent date in [from, to].
func (c *Client) EntriesForRange(ctx context.Context, from, to string) ([]domain.TimeEntry, error) {
	q := url.Values{"from": {from}, "to": {to}}
	var page timeEntriesPage
	if err := c.get(ctx, "/time_entries", q, &page); err != nil {
		return nil, err
	}
	entries := make([]domain.TimeEntry, 0, len(page.TimeEntries))
	for _, e := range page.TimeEntries {
		entries = append(entries, e.toDomain())
	}
	return entries, nil
}

// StartTimer creates a running entry for the given input.
func (c *Client) StartTimer(ctx context.Context, in domain.StartTimerInput, rc domain.RunContext) (*domain.TimeEntry, error) {
	if rc.DryRun {
		c.logger.Debug(ctx, "dry-run: would start timer", map[string]any{"notes": in.Notes})
		return &domain.TimeEntry{
			SpentDate: in.SpentDate,
			Notes:     in.Notes,
			IsRunning: true,
		}, nil
	}

	req := createEntryRequest{
		Notes:     in.Notes,
		ProjectID: in.ProjectID,
		TaskID:    in.TaskID,
		SpentDate: in.SpentDate,
	}
	if in.Reference != nil {
		req.ExternalReference = &externalReference{
			ID:        in.Reference.ID,
			GroupID:   in.Reference.GroupID,
			Permalink: in.Reference.Permalink,
		}
	}

	var entry timeEntry
	if err := c.send(ctx, http.MethodPost, "/time_entries", req, &entry); err != nil {
		return nil, fmt.Errorf("starting timer: %w", err)
	}
	out := entry.toDomain()
	return &out, nil
}

// CreateEntry creates a stopped entry with explicit hours.
func (c *Client) CreateEntry(ctx context.Context, in domain.CreateEntryInput, rc domain.RunContext) (*domain.TimeEntry, error) {
	if rc.DryRun {
		c.logger.Debug(ctx, "dry-run: would create entry", map[string]any{
			"notes": in.Notes,
			"hours": in.Hours,
		})
		return &domain.TimeEntry{
			SpentDate: in.SpentDate,
			Notes:     in.Notes,
			Hours:     in.Hours,
		}, nil
	}

	hours := in.Hours
	req := createEntryRequest{
		Notes:     in.Notes,
		ProjectID: in.ProjectID,
		TaskID:    in.TaskID,
		SpentDate: in.SpentDate,
		Hours:     &hours,
	}

	var entry timeEntry
	if err := c.send(ctx, http.MethodPost, "/time_entries", req, &entry); err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}
	out := entry.toDomain()
	return &out, nil
}

// StopTimer stops the entry with the given id.
func (c *Client) StopTimer(ctx context.Context, id int64, rc domain.RunContext) (*domain.TimeEntry, error) {
	if rc.DryRun {
		c.logger.Debug(ctx, "dry-run: would stop timer", map[string]any{"id": id})
		return &domain.TimeEntry{ID: id}, nil
	}

	var entry timeEntry
	path := "/time_entries/" + strconv.FormatInt(id, 10) + "/stop"
	if err := c.send(ctx, http.MethodPatch, path, nil, &entry); err != nil {
		return nil, fmt.Errorf("stopping timer: %w", err)
	}
	out := entry.toDomain()
	return &out, nil
}

// RestartEntry resumes the entry with the given id in place. Harvest keeps
// the original spent date and restarts accrual.
func (c *Client) RestartEntry(ctx context.Context, id int64, rc domain.RunContext) (*domain.TimeEntry, error) {
	if rc.DryRun {
		c.logger.Debug(ctx, "dry-run: would restart entry", map[string]any{"id": id})
		return &domain.TimeEntry{ID: id, IsRunning: true}, nil
	}

	var entry timeEntry
	path := "/time_entries/" + strconv.FormatInt(id, 10) + "/restart"
	if err := c.send(ctx, http.MethodPatch, path, nil, &entry); err != nil {
		return nil, fmt.Errorf("restarting entry: %w", err)
	}
	out := entry.toDomain()
	return &out, nil
}

// ActiveProjects lists projects the user can book time on. Accounts
// without admin access get 403 from /projects; the per-user project
// assignments endpoint is the fallback.
func (c *Client) ActiveProjects(ctx context.Context) ([]domain.Project, error) {
	q := url.Values{"is_active": {"true"}}
	var page projectsPage
	err := c.get(ctx, "/projects", q, &page)
	if err == nil {
		projects := make([]domain.Project, 0, len(page.Projects))
		for _, p := range page.Projects {
			projects = append(projects, domain.Project{ID: p.ID, Name: p.Name, Code: p.Code})
		}
		return projects, nil
	}
	if !isForbidden(err) {
		return nil, err
	}

	c.logger.Debug(ctx, "projects endpoint forbidden, using assignments", nil)
	assignments, err := c.projectAssignments(ctx)
	if err != nil {
		return nil, err
	}
	projects := make([]domain.Project, 0, len(assignments))
	for _, a := range assignments {
		projects = append(projects, domain.Project{ID: a.Project.ID, Name: a.Project.Name, Code: a.Project.Code})
	}
	return projects, nil
}

// ProjectTasks lists bookable tasks for one project, with the same 403
// fallback as ActiveProjects.
func (c *Client) ProjectTasks(ctx context.Context, projectID int64) ([]domain.Task, error) {
	q := url.Values{"is_active": {"true"}}
	path := "/projects/" + strconv.FormatInt(projectID, 10) + "/task_assignments"
	var page taskAssignmentsPage
	err := c.get(ctx, path, q, &page)
	if err == nil {
		tasks := make([]domain.Task, 0, len(page.TaskAssignments))
		for _, ta := range page.TaskAssignments {
			tasks = append(tasks, domain.Task{ID: ta.Task.ID, Name: ta.Task.Name})
		}
		return tasks, nil
	}
	if !isForbidden(err) {
		return nil, err
	}

	c.logger.Debug(ctx, "task assignments forbidden, using project assignments", map[string]any{
		"project_id": projectID,
	})
	assignments, err := c.projectAssignments(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		if a.Project.ID != projectID {
			continue
		}
		tasks := make([]domain.Task, 0, len(a.TaskAssignments))
		for _, ta := range a.TaskAssignments {
			tasks = append(tasks, domain.Task{ID: ta.Task.ID, Name: ta.Task.Name})
		}
		return tasks, nil
	}
	return nil, nil
}

func (c *Client) projectAssignments(ctx context.Context) ([]projectAssignment, error) {
	var page projectAssignmentsPage
	if err := c.get(ctx, "/users/me/project_assignments", nil, &page); err != nil {
		return nil, err
	}
	return page.ProjectAssignments, nil
}

// statusError carries the HTTP status for fallback decisions.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("harvest API returned %d: %s", e.status, e.body)
}

func isForbidden(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.status == http.StatusForbidden
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Harvest-Account-Id", c.accountID)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling harvest API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode, body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
