// Package jira implements the domain.IssueTracker interface against the
// Jira Cloud REST API v3.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/stevendejongnl/harv/internal/domain"
)

// Client fetches issue metadata from Jira.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a Client with retrying transport. The base URL is the
// site root, e.g. https://company.atlassian.net.
func NewClient(baseURL, token string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    rc.StandardClient(),
	}
}

type issueResponse struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  struct {
			Name string `json:"name"`
		} `json:"status"`
	} `json:"fields"`
}

// Issue fetches summary and status for one ticket key. Not-found and
// credential failures map onto the domain sentinel errors so callers can
// classify them.
func (c *Client) Issue(ctx context.Context, key string) (*domain.Ticket, error) {
	u := c.baseURL + "/rest/api/3/issue/" + key
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling jira API: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrIssueNotFound, key)
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: check jira access token", domain.ErrUnauthorized)
	case http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, key)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("jira API returned %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var issue issueResponse
	if err := json.Unmarshal(data, &issue); err != nil {
		return nil, fmt.Errorf("decoding issue %s: %w", key, err)
	}

	return &domain.Ticket{
		Key:     key,
		Summary: issue.Fields.Summary,
		Status:  issue.Fields.Status.Name,
	}, nil
}

// IssueURL returns the browse URL for a ticket key.
func (c *Client) IssueURL(key string) string {
	return c.baseURL + "/browse/" + key
}
