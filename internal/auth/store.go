package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists tokens as JSON files under a directory, one file per
// provider/account pair, mode 0600.
type Store struct {
	dir string
}

// NewStore creates a token store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore creates a token store under the user cache directory.
func DefaultStore() (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine user cache directory: %w", err)
	}
	return NewStore(filepath.Join(cacheDir, "atomd")), nil
}

// Save writes the token for a provider/account pair.
func (s *Store) Save(provider, account string, tok *Token) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(s.path(provider, account), data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load reads the token for a provider/account pair. Returns os.ErrNotExist
// wrapped when no token has been saved.
func (s *Store) Load(provider, account string) (*Token, error) {
	data, err := os.ReadFile(s.path(provider, account))
	if err != nil {
		return nil, fmt.Errorf("failed to read token for %s/%s: %w", provider, account, err)
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token for %s/%s: %w", provider, account, err)
	}
	return &tok, nil
}

// Delete removes the stored token. Deleting a missing token is not an error.
func (s *Store) Delete(provider, account string) error {
	err := os.Remove(s.path(provider, account))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token for %s/%s: %w", provider, account, err)
	}
	return nil
}

// Has reports whether a token exists for the provider/account pair.
func (s *Store) Has(provider, account string) bool {
	_, err := os.Stat(s.path(provider, account))
	return err == nil
}

func (s *Store) path(provider, account string) string {
	return filepath.Join(s.dir, sanitize(provider)+"-"+sanitize(account)+".token")
}

// sanitize keeps filenames flat: anything outside [a-zA-Z0-9@._-] becomes "_".
func sanitize(s string) string {
	if s == "" {
		return "default"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '@' || r == '.' || r == '_' || r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
