package gemini

import (
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/samkirk/gca-bridge/internal/sigcache"
)

// AuthClient is the capability this package consumes for everything
// OAuth-shaped (spec §6); the login ceremony and token cache live
// outside the core.
type AuthClient interface {
	// AccessToken returns a valid bearer token, refreshing if stale.
	AccessToken() (string, error)
	// InvalidateToken forces a refresh on the next AccessToken call.
	InvalidateToken()
	// ProjectHint returns an explicit project id if the auth source
	// already knows one (e.g. from the cached OAuth token), or "".
	ProjectHint() string
}

const (
	defaultBaseURL  = "https://cloudcode-pa.googleapis.com/v1internal"
	geminiCLIVersion = "1.0.0"
)

// Client is the Gemini Streaming Client of spec §4.4.
type Client struct {
	auth    AuthClient
	http    *http.Client
	baseURL string

	installationID string

	sig *sigcache.Cache

	projectMu      singleflight.Group
	discoveredProj string
	explicitProj   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Code Assist base URL (tests only).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the transport (tests only).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithProjectID supplies an explicit project id, skipping discovery.
func WithProjectID(id string) Option {
	return func(c *Client) { c.explicitProj = id }
}

// NewClient builds a Client against the given AuthClient and installation
// id (sent as the privileged-user-id header), sharing one process-wide
// signature cache across every Client instance created for a given
// *sigcache.Cache (normally a single process-wide instance, per spec §5).
func NewClient(auth AuthClient, installationID string, sig *sigcache.Cache, opts ...Option) *Client {
	c := &Client{
		auth:           auth,
		http:           &http.Client{Timeout: 120 * time.Second, Transport: newTransport()},
		baseURL:        defaultBaseURL,
		installationID: installationID,
		sig:            sig,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) userAgent(model string) string {
	return "GeminiCLI/" + geminiCLIVersion + "/" + model + " (" + platformString() + "; " + archString() + ")"
}
