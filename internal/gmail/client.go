package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/rush86999/atom-sub000/internal/auth"
	"github.com/rush86999/atom-sub000/internal/google"
	"github.com/rush86999/atom-sub000/internal/ratelimit"
)

// Client wraps the Gmail Users service. All outbound calls go through the
// per-account rate limiter so bursts from the UI cannot trip Gmail's
// per-user quota.
type Client struct {
	svc     *gmail.UsersService
	limiter *ratelimit.Limiter
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Gmail client for a specific account.
func NewClientForAccount(ctx context.Context, manager *auth.Manager, account string, limiter *ratelimit.Limiter) (*Client, error) {
	httpClient, err := google.HTTPClientForAccount(ctx, manager, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		limiter: limiter,
		account: account,
	}, nil
}

// ListMessages retrieves the most recent inbox messages with their headers.
func (c *Client) ListMessages(ctx context.Context, limit int) ([]Message, error) {
	return c.query(ctx, "in:inbox", limit)
}

// Search retrieves messages matching a Gmail search query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Message, error) {
	return c.query(ctx, query, limit)
}

func (c *Client) query(ctx context.Context, q string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 20
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := c.svc.Messages.List("me").Q(q).MaxResults(int64(limit)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	// The list call returns IDs only; headers need a metadata fetch per
	// message.
	messages := make([]Message, 0, len(res.Messages))
	for _, ref := range res.Messages {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		m, err := c.svc.Messages.Get("me", ref.Id).
			Format("metadata").
			MetadataHeaders("From", "To", "Subject").
			Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", ref.Id, err)
		}
		messages = append(messages, toMessage(m))
	}

	return messages, nil
}

// GetMessage retrieves a single message including its plain-text body.
func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	m, err := c.svc.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	result := toMessage(m)
	return &result, nil
}

// SendMessage sends a plain-text message from the authenticated account.
func (c *Client) SendMessage(ctx context.Context, input MessageInput) (*Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	raw := buildRFC2822(input)
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	sent, err := c.svc.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	result := toMessage(sent)
	return &result, nil
}

// ArchiveThread archives a thread by removing the INBOX label
func (c *Client) ArchiveThread(ctx context.Context, threadID string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := c.svc.Threads.Modify("me", threadID, &gmail.ModifyThreadRequest{
		RemoveLabelIds: []string{"INBOX"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to archive thread %s: %w", threadID, err)
	}
	return nil
}

// buildRFC2822 assembles a minimal RFC 2822 message for the Gmail raw API.
func buildRFC2822(input MessageInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(input.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", input.Subject)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(input.Body)
	return b.String()
}
