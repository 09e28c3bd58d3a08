package authclient

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))

	want := &oauth2.Token{
		AccessToken:  "at-1",
		TokenType:    "Bearer",
		RefreshToken: "rt-1",
		Expiry:       time.Now().Add(time.Hour).UTC(),
	}
	if err := store.Save(want, "proj-1"); err != nil {
		t.Fatal(err)
	}

	got, project, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Fatalf("got %+v", got)
	}
	if project != "proj-1" {
		t.Fatalf("got project %q", project)
	}
}

func TestTokenStoreLoadMissingIsNotAnError(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "missing.json"))
	tok, project, err := store.Load()
	if err != nil || tok != nil || project != "" {
		t.Fatalf("got %+v, %q, %v", tok, project, err)
	}
}

func TestRegistryCompleteDeliversResult(t *testing.T) {
	r := NewRegistry()
	req, err := r.Register(ModeCLI)
	if err != nil {
		t.Fatal(err)
	}

	if !r.Complete(req.State, &OAuthResult{Code: "abc", State: req.State}) {
		t.Fatal("expected Complete to succeed on a pending request")
	}

	select {
	case result := <-req.ResultChan:
		if result.Code != "abc" {
			t.Fatalf("got %+v", result)
		}
	default:
		t.Fatal("expected a buffered result")
	}
}

func TestRegistryCompleteTwiceFails(t *testing.T) {
	r := NewRegistry()
	req, _ := r.Register(ModeCLI)
	r.Complete(req.State, &OAuthResult{Code: "abc", State: req.State})
	if r.Complete(req.State, &OAuthResult{Code: "xyz", State: req.State}) {
		t.Fatal("expected a second Complete on a non-pending request to fail")
	}
}
