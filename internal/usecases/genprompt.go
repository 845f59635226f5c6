package usecases

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stevendejongnl/harv/internal/domain"
)

// catalogProject is one bookable project with its tasks, as handed to the
// AI provider and later used to validate its proposals.
type catalogProject struct {
	ID    int64         `json:"id"`
	Name  string        `json:"name"`
	Tasks []domain.Task `json:"tasks"`
}

// buildPrompt assembles the provider prompt: the user's summary, the
// bookable catalog as JSON, the remaining hours and the fixed output
// contract. The contract is fixed; prompt templating is out of scope.
func buildPrompt(summary string, catalog []catalogProject, remainingHours float64) (string, error) {
	catalogJSON, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding project catalog: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a time-tracking assistant. Based on the work summary below, ")
	b.WriteString("propose time entries for today.\n\n")
	b.WriteString("Work summary:\n")
	b.WriteString(summary)
	b.WriteString("\n\nAvailable projects and tasks:\n")
	b.Write(catalogJSON)
	fmt.Fprintf(&b, "\n\nHours still to be filled today: %.2f\n\n", remainingHours)
	b.WriteString("Respond with a single JSON object of this exact shape and nothing else:\n")
	b.WriteString(`{"time_entries": [{"description": "...", "project_id": 0, "task_id": 0, "hours": 0.0, "confidence": 0.0}]}`)
	b.WriteString("\n\nRules: project_id and task_id must come from the catalog above, ")
	b.WriteString("hours must be positive, the hours should sum to at most the remaining hours, ")
	b.WriteString("and confidence is your certainty in [0, 1].")
	return b.String(), nil
}
