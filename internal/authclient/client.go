package authclient

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// codeAssistScopes are the scopes requested for the Code Assist OAuth
// app; cloud-platform is required to mint a project-scoped token.
var codeAssistScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/userinfo.email",
}

// OAuthConfig builds the oauth2.Config for the Code Assist installed-app
// flow. clientID/clientSecret are the registered Code Assist OAuth app
// credentials; redirectURL is the local loopback callback address.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       codeAssistScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
}

// Client implements gemini.AuthClient over a disk-persisted oauth2.Token,
// refreshing lazily on AccessToken and forcing a refresh after
// InvalidateToken (used by the gemini package when upstream reports 401).
type Client struct {
	cfg   *oauth2.Config
	store *TokenStore

	mu          sync.Mutex
	src         oauth2.TokenSource
	projectHint string
}

// NewClient loads the persisted token (if any) and wraps it in a
// refreshing, self-persisting token source. Returns an error only if the
// token file exists but is corrupt; a missing token is not an error here
// — AccessToken will fail until a login completes.
func NewClient(cfg *oauth2.Config, store *TokenStore) (*Client, error) {
	tok, projectHint, err := store.Load()
	if err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg, store: store, projectHint: projectHint}
	c.setToken(tok)
	return c, nil
}

func (c *Client) setToken(tok *oauth2.Token) {
	if tok == nil {
		c.src = nil
		return
	}
	c.src = &persistingTokenSource{
		ctx:         context.Background(),
		src:         c.cfg.TokenSource(context.Background(), tok),
		store:       c.store,
		projectHint: c.projectHint,
	}
}

// AccessToken returns a valid bearer token, refreshing via the stored
// refresh token if the cached access token is stale.
func (c *Client) AccessToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.src == nil {
		return "", fmt.Errorf("authclient: not logged in, run `gca-bridge login`")
	}
	tok, err := c.src.Token()
	if err != nil {
		return "", fmt.Errorf("authclient: refreshing token: %w", err)
	}
	return tok.AccessToken, nil
}

// InvalidateToken forces the next AccessToken call to refresh, by
// re-reading the persisted refresh token and rebuilding the source —
// oauth2's TokenSource has no explicit invalidate, so refreshing with the
// saved refresh token is the only way back to a valid access token.
func (c *Client) InvalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	tok, projectHint, err := c.store.Load()
	if err != nil || tok == nil {
		c.src = nil
		return
	}
	c.projectHint = projectHint
	c.setToken(&oauth2.Token{RefreshToken: tok.RefreshToken})
}

// ProjectHint returns the GCP project id recorded at login time, or "".
func (c *Client) ProjectHint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectHint
}

// CompleteLogin exchanges an authorization code for a token, persists it
// alongside projectHint, and makes the client immediately usable.
func (c *Client) CompleteLogin(ctx context.Context, code, projectHint string) error {
	tok, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("authclient: exchanging code: %w", err)
	}

	c.mu.Lock()
	c.projectHint = projectHint
	c.setToken(tok)
	c.mu.Unlock()

	return c.store.Save(tok, projectHint)
}
