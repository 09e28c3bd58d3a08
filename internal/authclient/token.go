package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// storedToken is the on-disk shape of a persisted Code Assist refresh
// token, matching golang.org/x/oauth2.Token's exported fields so it can
// round-trip without a custom marshaler.
type storedToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	Expiry       string `json:"expiry"`
	ProjectID    string `json:"project_id,omitempty"`
}

// TokenStore persists an OAuth2 token to a single JSON file, mirroring
// how a CLI-oriented OAuth client caches credentials between runs
// instead of re-opening a browser on every launch.
type TokenStore struct {
	path string
}

// NewTokenStore returns a store backed by path. The parent directory is
// created on first Save.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// DefaultTokenPath returns ~/.config/gca-bridge/token.json, falling back
// to a relative path if the user's config dir can't be resolved.
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".gca-bridge", "token.json")
	}
	return filepath.Join(dir, "gca-bridge", "token.json")
}

// Load reads the persisted token and project hint. Returns (nil, "", nil)
// if no token has been saved yet.
func (s *TokenStore) Load() (*oauth2.Token, string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("reading token store: %w", err)
	}

	var st storedToken
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, "", fmt.Errorf("decoding token store: %w", err)
	}

	tok := &oauth2.Token{
		AccessToken:  st.AccessToken,
		TokenType:    st.TokenType,
		RefreshToken: st.RefreshToken,
	}
	if st.Expiry != "" {
		if err := tok.Expiry.UnmarshalText([]byte(st.Expiry)); err != nil {
			return nil, "", fmt.Errorf("decoding token expiry: %w", err)
		}
	}
	return tok, st.ProjectID, nil
}

// Save writes tok and projectHint to disk, replacing any prior contents.
func (s *TokenStore) Save(tok *oauth2.Token, projectHint string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token store dir: %w", err)
	}

	expiry, err := tok.Expiry.MarshalText()
	if err != nil {
		return fmt.Errorf("encoding token expiry: %w", err)
	}

	st := storedToken{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       string(expiry),
		ProjectID:    projectHint,
	}
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token store: %w", err)
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// persistingTokenSource wraps an oauth2.TokenSource and writes back to
// store whenever the underlying source issues a refreshed token, so a
// refresh triggered mid-request survives past process restart.
type persistingTokenSource struct {
	ctx         context.Context
	src         oauth2.TokenSource
	store       *TokenStore
	projectHint string
	last        string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		// A failed cache write shouldn't fail the request in flight.
		_ = p.store.Save(tok, p.projectHint)
	}
	return tok, nil
}
