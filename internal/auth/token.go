package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// Token is a stored OAuth credential for one provider/account pair.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// ExpiresWithin reports whether the token has expired or will expire within
// the threshold. A zero expiry means the token does not expire (GitHub
// personal access tokens and classic OAuth tokens behave this way).
func (t *Token) ExpiresWithin(threshold time.Duration) bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().Add(threshold).After(t.Expiry)
}

// toOAuth2 converts to the x/oauth2 token type used by provider endpoints.
func (t *Token) toOAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}

// fromOAuth2 converts an x/oauth2 token, carrying the previous refresh token
// forward when the provider omits it from the refresh response.
func fromOAuth2(tok *oauth2.Token, previous *Token) *Token {
	t := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	if t.RefreshToken == "" && previous != nil {
		t.RefreshToken = previous.RefreshToken
	}
	return t
}
