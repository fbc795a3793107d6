package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the gitlab.com API endpoint.
const DefaultBaseURL = "https://gitlab.com"

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a minimal GitLab REST v4 client authenticated with a personal
// access token.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPClient
}

// NewClient creates a new GitLab client. An empty baseURL selects
// gitlab.com (set it for self-hosted instances).
func NewClient(baseURL, token string, httpClient HTTPClient) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
	}
}

// ListProjects retrieves the projects the token is a member of, most
// recently active first.
func (c *Client) ListProjects(ctx context.Context, limit int) ([]Project, error) {
	if limit <= 0 {
		limit = 20
	}
	path := "/api/v4/projects?" + url.Values{
		"membership": {"true"},
		"order_by":   {"last_activity_at"},
		"per_page":   {fmt.Sprintf("%d", limit)},
	}.Encode()

	var glProjects []gitlabProject
	if err := c.doRequest(ctx, path, &glProjects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]Project, len(glProjects))
	for i, p := range glProjects {
		projects[i] = toProject(p)
	}
	return projects, nil
}

// ListMergeRequests retrieves merge requests for a project. state is
// "opened", "merged", "closed", or "all"; empty defaults to "opened".
func (c *Client) ListMergeRequests(ctx context.Context, projectID int, state string) ([]MergeRequest, error) {
	if state == "" {
		state = "opened"
	}
	path := fmt.Sprintf("/api/v4/projects/%d/merge_requests?", projectID) +
		url.Values{"state": {state}}.Encode()

	var glMRs []gitlabMergeRequest
	if err := c.doRequest(ctx, path, &glMRs); err != nil {
		return nil, fmt.Errorf("failed to list merge requests: %w", err)
	}

	mrs := make([]MergeRequest, len(glMRs))
	for i, mr := range glMRs {
		mrs[i] = toMergeRequest(mr)
	}
	return mrs, nil
}

// ListPipelines retrieves recent pipelines for a project.
func (c *Client) ListPipelines(ctx context.Context, projectID, limit int) ([]Pipeline, error) {
	if limit <= 0 {
		limit = 20
	}
	path := fmt.Sprintf("/api/v4/projects/%d/pipelines?", projectID) +
		url.Values{"per_page": {fmt.Sprintf("%d", limit)}}.Encode()

	var glPipelines []gitlabPipeline
	if err := c.doRequest(ctx, path, &glPipelines); err != nil {
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}

	pipelines := make([]Pipeline, len(glPipelines))
	for i, p := range glPipelines {
		pipelines[i] = toPipeline(p)
	}
	return pipelines, nil
}

// GetPipeline retrieves a single pipeline by ID.
func (c *Client) GetPipeline(ctx context.Context, projectID, pipelineID int) (*Pipeline, error) {
	path := fmt.Sprintf("/api/v4/projects/%d/pipelines/%d", projectID, pipelineID)

	var glPipeline gitlabPipeline
	if err := c.doRequest(ctx, path, &glPipeline); err != nil {
		return nil, fmt.Errorf("failed to get pipeline %d: %w", pipelineID, err)
	}

	pipeline := toPipeline(glPipeline)
	return &pipeline, nil
}

// doRequest performs a GET against the GitLab API and decodes the JSON
// response into result.
func (c *Client) doRequest(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("PRIVATE-TOKEN", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GitLab API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
