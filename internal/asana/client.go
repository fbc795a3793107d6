package asana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the Asana REST API endpoint.
const DefaultBaseURL = "https://app.asana.com/api/1.0"

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a minimal Asana REST client authenticated with a personal
// access token.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPClient
}

// NewClient creates a new Asana client. An empty baseURL selects the
// public Asana API.
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

// ListWorkspaces retrieves the workspaces visible to the token.
func (c *Client) ListWorkspaces(ctx context.Context) ([]Workspace, error) {
	var env dataEnvelope[[]asanaWorkspace]
	if err := c.doRequest(ctx, http.MethodGet, "/workspaces", nil, &env); err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	workspaces := make([]Workspace, len(env.Data))
	for i, w := range env.Data {
		workspaces[i] = toWorkspace(w)
	}
	return workspaces, nil
}

// ListProjects retrieves the projects in a workspace.
func (c *Client) ListProjects(ctx context.Context, workspaceGID string) ([]Project, error) {
	path := "/projects?" + url.Values{
		"workspace":  {workspaceGID},
		"opt_fields": {"name,archived"},
	}.Encode()

	var env dataEnvelope[[]asanaProject]
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]Project, len(env.Data))
	for i, p := range env.Data {
		projects[i] = toProject(p)
	}
	return projects, nil
}

// ListTasks retrieves the tasks in a project.
func (c *Client) ListTasks(ctx context.Context, projectGID string) ([]Task, error) {
	path := fmt.Sprintf("/projects/%s/tasks?", url.PathEscape(projectGID)) + url.Values{
		"opt_fields": {"name,notes,completed,due_on,assignee.name,created_at"},
	}.Encode()

	var env dataEnvelope[[]asanaTask]
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]Task, len(env.Data))
	for i, t := range env.Data {
		tasks[i] = toTask(t)
	}
	return tasks, nil
}

// CreateTask creates a task in a project.
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*Task, error) {
	data := map[string]any{
		"name":     input.Name,
		"projects": []string{input.ProjectID},
	}
	if input.Notes != "" {
		data["notes"] = input.Notes
	}
	if input.DueOn != "" {
		data["due_on"] = input.DueOn
	}
	if input.Assignee != "" {
		data["assignee"] = input.Assignee
	}

	var env dataEnvelope[asanaTask]
	if err := c.doRequest(ctx, http.MethodPost, "/tasks", map[string]any{"data": data}, &env); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	task := toTask(env.Data)
	return &task, nil
}

// CompleteTask marks a task as completed.
func (c *Client) CompleteTask(ctx context.Context, taskGID string) (*Task, error) {
	body := map[string]any{"data": map[string]any{"completed": true}}

	var env dataEnvelope[asanaTask]
	path := "/tasks/" + url.PathEscape(taskGID)
	if err := c.doRequest(ctx, http.MethodPut, path, body, &env); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	task := toTask(env.Data)
	return &task, nil
}

// doRequest performs an HTTP request against the Asana API and decodes the
// JSON response into result.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Asana API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
