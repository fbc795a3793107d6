package outlook

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

// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenFunc supplies a bearer token for each request. Graph access tokens
// are short-lived, so the token is fetched per call rather than pinned at
// client construction.
type TokenFunc func(ctx context.Context) (string, error)

// Client is a minimal Microsoft Graph client for Outlook mail and
// calendar.
type Client struct {
	baseURL    string
	token      TokenFunc
	httpClient HTTPClient
}

// NewClient creates a new Outlook client. An empty baseURL selects the
// public Graph endpoint.
func NewClient(baseURL string, token TokenFunc, httpClient HTTPClient) *Client {
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

// ListMessages retrieves the most recent inbox messages.
func (c *Client) ListMessages(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 25
	}
	path := "/me/messages?" + url.Values{
		"$top":     {fmt.Sprintf("%d", limit)},
		"$orderby": {"receivedDateTime desc"},
	}.Encode()

	var env valueEnvelope[graphMessage]
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]Message, len(env.Value))
	for i, m := range env.Value {
		messages[i] = toMessage(m)
	}
	return messages, nil
}

// SendMessage sends a mail message from the authenticated mailbox.
func (c *Client) SendMessage(ctx context.Context, input MessageInput) error {
	recipients := make([]map[string]any, len(input.To))
	for i, addr := range input.To {
		recipients[i] = map[string]any{
			"emailAddress": map[string]any{"address": addr},
		}
	}

	body := map[string]any{
		"message": map[string]any{
			"subject": input.Subject,
			"body": map[string]any{
				"contentType": "Text",
				"content":     input.Body,
			},
			"toRecipients": recipients,
		},
	}

	if err := c.doRequest(ctx, http.MethodPost, "/me/sendMail", body, nil); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// ListEvents retrieves calendar events in the given window.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	path := "/me/calendarView?" + url.Values{
		"startDateTime": {from.UTC().Format(time.RFC3339)},
		"endDateTime":   {to.UTC().Format(time.RFC3339)},
		"$orderby":      {"start/dateTime"},
	}.Encode()

	var env valueEnvelope[graphEvent]
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, len(env.Value))
	for i, e := range env.Value {
		events[i] = toEvent(e)
	}
	return events, nil
}

// CreateEvent creates a calendar event.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*Event, error) {
	attendees := make([]map[string]any, len(input.Attendees))
	for i, addr := range input.Attendees {
		attendees[i] = map[string]any{
			"emailAddress": map[string]any{"address": addr},
			"type":         "required",
		}
	}

	body := map[string]any{
		"subject": input.Subject,
		"start": map[string]any{
			"dateTime": input.Start.UTC().Format(graphTimeLayout),
			"timeZone": "UTC",
		},
		"end": map[string]any{
			"dateTime": input.End.UTC().Format(graphTimeLayout),
			"timeZone": "UTC",
		},
	}
	if input.Location != "" {
		body["location"] = map[string]any{"displayName": input.Location}
	}
	if len(attendees) > 0 {
		body["attendees"] = attendees
	}
	if input.Body != "" {
		body["body"] = map[string]any{"contentType": "Text", "content": input.Body}
	}

	var created graphEvent
	if err := c.doRequest(ctx, http.MethodPost, "/me/events", body, &created); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	event := toEvent(created)
	return &event, nil
}

// doRequest performs an HTTP request against the Graph API. result may be
// nil for endpoints that return no body (sendMail answers 202 Accepted).
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

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

	req.Header.Set("Authorization", "Bearer "+token)
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
		return fmt.Errorf("Graph API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
