package githubapi

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

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a minimal GitHub REST client authenticated with a personal
// access token or OAuth token.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPClient
}

// NewClient creates a new GitHub client. An empty baseURL selects the
// public GitHub API (set it for GitHub Enterprise).
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

// ListRepos retrieves the repositories the token has access to, most
// recently updated first.
func (c *Client) ListRepos(ctx context.Context, limit int) ([]Repo, error) {
	if limit <= 0 {
		limit = 30
	}
	path := "/user/repos?" + url.Values{
		"sort":     {"updated"},
		"per_page": {fmt.Sprintf("%d", limit)},
	}.Encode()

	var ghRepos []githubRepo
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &ghRepos); err != nil {
		return nil, fmt.Errorf("failed to list repos: %w", err)
	}

	repos := make([]Repo, len(ghRepos))
	for i, r := range ghRepos {
		repos[i] = toRepo(r)
	}
	return repos, nil
}

// ListIssues retrieves issues for a repository. state is "open", "closed",
// or "all"; empty defaults to "open". Pull requests, which GitHub reports
// on the issues endpoint too, are filtered out.
func (c *Client) ListIssues(ctx context.Context, owner, repo, state string) ([]Issue, error) {
	if state == "" {
		state = "open"
	}
	path := fmt.Sprintf("/repos/%s/%s/issues?", url.PathEscape(owner), url.PathEscape(repo)) +
		url.Values{"state": {state}}.Encode()

	var ghIssues []githubIssue
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &ghIssues); err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	var issues []Issue
	for _, i := range ghIssues {
		if i.PullRequest != nil {
			continue
		}
		issues = append(issues, toIssue(i))
	}
	return issues, nil
}

// GetIssue retrieves a single issue by number.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", url.PathEscape(owner), url.PathEscape(repo), number)

	var ghIssue githubIssue
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &ghIssue); err != nil {
		return nil, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}

	issue := toIssue(ghIssue)
	return &issue, nil
}

// ListPullRequests retrieves pull requests for a repository.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo, state string) ([]PullRequest, error) {
	if state == "" {
		state = "open"
	}
	path := fmt.Sprintf("/repos/%s/%s/pulls?", url.PathEscape(owner), url.PathEscape(repo)) +
		url.Values{"state": {state}}.Encode()

	var ghPulls []githubPull
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &ghPulls); err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	pulls := make([]PullRequest, len(ghPulls))
	for i, p := range ghPulls {
		pulls[i] = toPullRequest(p)
	}
	return pulls, nil
}

// CreateIssue opens a new issue in a repository.
func (c *Client) CreateIssue(ctx context.Context, owner, repo string, input IssueInput) (*Issue, error) {
	body := map[string]any{"title": input.Title}
	if input.Body != "" {
		body["body"] = input.Body
	}
	if len(input.Labels) > 0 {
		body["labels"] = input.Labels
	}

	path := fmt.Sprintf("/repos/%s/%s/issues", url.PathEscape(owner), url.PathEscape(repo))

	var ghIssue githubIssue
	if err := c.doRequest(ctx, http.MethodPost, path, body, &ghIssue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	issue := toIssue(ghIssue)
	return &issue, nil
}

// doRequest performs an HTTP request against the GitHub API and decodes
// the JSON response into result.
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
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
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
		return fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
