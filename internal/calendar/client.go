package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/rush86999/atom-sub000/internal/auth"
	"github.com/rush86999/atom-sub000/internal/google"
)

// Client wraps the Google Calendar service for the primary calendar.
type Client struct {
	svc     *calendar.Service
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Calendar client for a specific account.
func NewClientForAccount(ctx context.Context, manager *auth.Manager, account string) (*Client, error) {
	httpClient, err := google.HTTPClientForAccount(ctx, manager, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// ListEvents retrieves events on the primary calendar in the given window,
// with recurring events expanded into single instances.
func (c *Client) ListEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	res, err := c.svc.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, len(res.Items))
	for i, e := range res.Items {
		events[i] = toEvent(e)
	}
	return events, nil
}

// CreateEvent creates an event on the primary calendar.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*Event, error) {
	e := &calendar.Event{
		Summary:     input.Summary,
		Location:    input.Location,
		Description: input.Description,
		Start:       &calendar.EventDateTime{DateTime: input.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: input.End.Format(time.RFC3339)},
	}
	for _, addr := range input.Attendees {
		e.Attendees = append(e.Attendees, &calendar.EventAttendee{Email: addr})
	}

	created, err := c.svc.Events.Insert("primary", e).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	result := toEvent(created)
	return &result, nil
}

// DeleteEvent removes an event from the primary calendar.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.svc.Events.Delete("primary", eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}
