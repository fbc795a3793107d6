package drive

import (
	"context"
	"fmt"
	"strings"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/rush86999/atom-sub000/internal/auth"
	"github.com/rush86999/atom-sub000/internal/google"
)

// fileFields is the field mask requested on every file read.
const fileFields = "id, name, mimeType, size, modifiedTime, webViewLink, owners(emailAddress), trashed"

// Client wraps the Google Drive service, read-only.
type Client struct {
	svc     *drive.Service
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Drive client for a specific account.
func NewClientForAccount(ctx context.Context, manager *auth.Manager, account string) (*Client, error) {
	httpClient, err := google.HTTPClientForAccount(ctx, manager, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// ListFiles retrieves the most recently modified files, excluding trash.
func (c *Client) ListFiles(ctx context.Context, limit int) ([]File, error) {
	return c.list(ctx, "trashed = false", limit)
}

// SearchFiles retrieves files whose name or content matches the query.
func (c *Client) SearchFiles(ctx context.Context, query string, limit int) ([]File, error) {
	escaped := strings.ReplaceAll(query, "'", `\'`)
	q := fmt.Sprintf("trashed = false and (name contains '%s' or fullText contains '%s')", escaped, escaped)
	return c.list(ctx, q, limit)
}

func (c *Client) list(ctx context.Context, q string, limit int) ([]File, error) {
	if limit <= 0 {
		limit = 20
	}

	res, err := c.svc.Files.List().
		Q(q).
		OrderBy("modifiedTime desc").
		PageSize(int64(limit)).
		Fields(googleapi.Field("files(" + fileFields + ")")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]File, len(res.Files))
	for i, f := range res.Files {
		files[i] = toFile(f)
	}
	return files, nil
}

// GetFile retrieves a single file's metadata by ID.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	f, err := c.svc.Files.Get(fileID).
		Fields(googleapi.Field(fileFields)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	file := toFile(f)
	return &file, nil
}
