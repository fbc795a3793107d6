package google

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/rush86999/atom-sub000/internal/auth"
)

// HTTPClientForAccount returns an HTTP client that injects a Google bearer
// token for the given account. Tokens are refreshed through the credential
// manager as they near expiry.
//
// The client is pinned to HTTP/1.1; the Google API endpoints occasionally
// reset HTTP/2 streams on long uploads.
func HTTPClientForAccount(ctx context.Context, manager *auth.Manager, account string) (*http.Client, error) {
	// Fail fast with a connection error instead of on the first API call.
	if _, err := manager.AccessToken(ctx, auth.ProviderGoogle, account); err != nil {
		return nil, err
	}

	ts := manager.TokenSource(ctx, auth.ProviderGoogle, account)
	client := oauth2.NewClient(ctx, ts)

	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{ForceAttemptHTTP2: false}
	}

	return client, nil
}

// HasTokenForAccount checks whether a Google token is stored for the account.
func HasTokenForAccount(manager *auth.Manager, account string) bool {
	return manager.HasToken(auth.ProviderGoogle, account)
}
