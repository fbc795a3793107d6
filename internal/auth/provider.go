package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"

	"github.com/rush86999/atom-sub000/internal/config"
)

// Provider names. These are the identifiers used in command arguments and
// token store filenames.
const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
	ProviderGitHub    = "github"
)

// Provider abstracts one OAuth identity provider: building the consent URL,
// exchanging an authorization code, and refreshing an expired token. This
// replaces the expiry/refresh logic that used to be duplicated per service
// integration.
type Provider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// AuthURL returns the URL the user visits to authorize access.
	AuthURL(state string) string

	// Exchange trades an authorization code for a token.
	Exchange(ctx context.Context, code string) (*Token, error)

	// Refresh exchanges the refresh token for a new access token.
	Refresh(ctx context.Context, tok *Token) (*Token, error)
}

// OAuthProvider implements Provider on top of an x/oauth2 endpoint.
type OAuthProvider struct {
	name string
	conf *oauth2.Config
}

// NewGoogleProvider creates the Google Workspace provider (Gmail, Calendar,
// Drive scopes).
func NewGoogleProvider(app config.OAuthApp) *OAuthProvider {
	return &OAuthProvider{
		name: ProviderGoogle,
		conf: &oauth2.Config{
			ClientID:     app.ClientID,
			ClientSecret: app.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  app.RedirectURI,
			Scopes: []string{
				"https://mail.google.com/",
				"https://www.googleapis.com/auth/calendar",
				"https://www.googleapis.com/auth/drive.readonly",
			},
		},
	}
}

// NewMicrosoftProvider creates the Microsoft Graph provider (Outlook mail
// and calendar scopes). offline_access is required for refresh tokens.
func NewMicrosoftProvider(app config.OAuthApp) *OAuthProvider {
	return &OAuthProvider{
		name: ProviderMicrosoft,
		conf: &oauth2.Config{
			ClientID:     app.ClientID,
			ClientSecret: app.ClientSecret,
			Endpoint:     microsoft.AzureADEndpoint("common"),
			RedirectURL:  app.RedirectURI,
			Scopes: []string{
				"offline_access",
				"https://graph.microsoft.com/Mail.ReadWrite",
				"https://graph.microsoft.com/Mail.Send",
				"https://graph.microsoft.com/Calendars.ReadWrite",
			},
		},
	}
}

// NewGitHubProvider creates the GitHub OAuth provider.
func NewGitHubProvider(app config.OAuthApp) *OAuthProvider {
	return &OAuthProvider{
		name: ProviderGitHub,
		conf: &oauth2.Config{
			ClientID:     app.ClientID,
			ClientSecret: app.ClientSecret,
			Endpoint:     github.Endpoint,
			RedirectURL:  app.RedirectURI,
			Scopes:       []string{"repo", "read:user"},
		},
	}
}

// Name returns the provider identifier.
func (p *OAuthProvider) Name() string {
	return p.name
}

// AuthURL returns the consent URL for the provider.
func (p *OAuthProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (p *OAuthProvider) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code with %s: %w", p.name, err)
	}
	return fromOAuth2(tok, nil), nil
}

// Refresh exchanges the refresh token for a new access token.
func (p *OAuthProvider) Refresh(ctx context.Context, tok *Token) (*Token, error) {
	if tok.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token available for %s", p.name)
	}

	// Force the token source to treat the token as expired so it hits the
	// provider's token endpoint instead of returning the cached access token.
	seed := tok.toOAuth2()
	seed.AccessToken = ""

	newTok, err := p.conf.TokenSource(ctx, seed).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh %s token: %w", p.name, err)
	}
	return fromOAuth2(newTok, tok), nil
}
