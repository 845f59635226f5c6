package usecases

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/stevendejongnl/harv/internal/domain"
)

type proposalsPayload struct {
	TimeEntries []proposalPayload `json:"time_entries"`
}

type proposalPayload struct {
	Description string   `json:"description"`
	ProjectID   int64    `json:"project_id"`
	TaskID      int64    `json:"task_id"`
	Hours       float64  `json:"hours"`
	Confidence  *float64 `json:"confidence"`
}

// parseProposals pulls the proposal list out of raw provider output.
// Providers wrap the object in prose or code fences often enough that the
// parser scans for the first well-formed JSON object instead of trusting
// the whole response.
func parseProposals(raw string) ([]domain.ProposedEntry, error) {
	obj, err := firstJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var payload proposalsPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, fmt.Errorf("decoding proposals: %w", err)
	}

	proposals := make([]domain.ProposedEntry, 0, len(payload.TimeEntries))
	for _, p := range payload.TimeEntries {
		proposals = append(proposals, domain.ProposedEntry{
			Description: p.Description,
			ProjectID:   p.ProjectID,
			TaskID:      p.TaskID,
			Hours:       p.Hours,
			Confidence:  p.Confidence,
		})
	}
	return proposals, nil
}

// firstJSONObject returns the first well-formed JSON object in text.
func firstJSONObject(text string) (string, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			return string(raw), nil
		}
	}
	return "", fmt.Errorf("no JSON object found in provider response")
}

// dedupeProposals drops exact repeats. Hours compare at cent precision so
// float noise does not defeat the dedupe.
func dedupeProposals(proposals []domain.ProposedEntry) []domain.ProposedEntry {
	type key struct {
		description string
		projectID   int64
		taskID      int64
		hundredths  int64
	}
	seen := make(map[key]struct{})
	out := make([]domain.ProposedEntry, 0, len(proposals))
	for _, p := range proposals {
		k := key{
			description: p.Description,
			projectID:   p.ProjectID,
			taskID:      p.TaskID,
			hundredths:  int64(math.Round(p.Hours * 100)),
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

// validateProposals keeps proposals whose ids exist in the catalog and
// whose hours are positive. Invalid ones are dropped, not fatal.
func validateProposals(proposals []domain.ProposedEntry, catalog []catalogProject) (valid, dropped []domain.ProposedEntry) {
	tasksByProject := make(map[int64]map[int64]struct{}, len(catalog))
	for _, p := range catalog {
		tasks := make(map[int64]struct{}, len(p.Tasks))
		for _, t := range p.Tasks {
			tasks[t.ID] = struct{}{}
		}
		tasksByProject[p.ID] = tasks
	}

	for _, p := range proposals {
		tasks, ok := tasksByProject[p.ProjectID]
		if !ok {
			dropped = append(dropped, p)
			continue
		}
		if _, ok := tasks[p.TaskID]; !ok {
			dropped = append(dropped, p)
			continue
		}
		if p.Hours <= 0 {
			dropped = append(dropped, p)
			continue
		}
		valid = append(valid, p)
	}
	return valid, dropped
}
