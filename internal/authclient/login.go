package authclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/skratchdot/open-golang/open"
	"golang.org/x/oauth2"
)

// LoginOptions controls the interactive login ceremony.
type LoginOptions struct {
	// ListenAddr is the loopback address the callback server binds to,
	// e.g. "127.0.0.1:0" to let the OS pick a free port.
	ListenAddr string
	// NoBrowser skips the automatic browser launch; the caller is
	// expected to print AuthURL themselves.
	NoBrowser bool
	// OnAuthURL is called once the authorization URL is known, before
	// the browser is opened — used to print it for headless setups.
	OnAuthURL func(url string)
}

// Login runs a one-shot OAuth2 authorization-code flow: binds a local
// callback listener, opens (or prints) the authorization URL, waits for
// the redirect, and exchanges the code via c.CompleteLogin. Blocks until
// the callback arrives, ctx is canceled, or the request expires.
func Login(ctx context.Context, c *Client, registry *Registry, opts LoginOptions) error {
	listenAddr := opts.ListenAddr
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("authclient: binding callback listener: %w", err)
	}
	defer ln.Close()

	c.cfg.RedirectURL = fmt.Sprintf("http://%s/callback", ln.Addr().String())

	req, err := registry.Register(ModeCLI)
	if err != nil {
		return err
	}
	defer registry.Remove(req.State)

	authURL := c.cfg.AuthCodeURL(req.State, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		state := q.Get("state")
		if errMsg := q.Get("error"); errMsg != "" {
			registry.Fail(state, errMsg)
			fmt.Fprintf(w, "Login failed: %s. You may close this tab.", errMsg)
			return
		}
		registry.Complete(state, &OAuthResult{Code: q.Get("code"), State: state})
		fmt.Fprint(w, "Login complete. You may close this tab.")
	})

	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	defer srv.Shutdown(context.Background())

	if opts.OnAuthURL != nil {
		opts.OnAuthURL(authURL)
	}
	if !opts.NoBrowser {
		_ = open.Run(authURL)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("authclient: login timed out waiting for browser callback")
	case result := <-req.ResultChan:
		if result.Error != "" {
			return fmt.Errorf("authclient: login denied: %s", result.Error)
		}
		return c.CompleteLogin(ctx, result.Code, c.ProjectHint())
	}
}
