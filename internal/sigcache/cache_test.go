package sigcache

import (
	"strings"
	"testing"
)

func sig(n int) string { return strings.Repeat("s", n) }

func TestRejectsShortSignatures(t *testing.T) {
	c := New()
	c.PutFamily("claude", sig(50))
	if _, ok := c.Family("claude"); ok {
		t.Fatalf("expected short signature to be rejected")
	}
}

func TestAcceptsAndRetrievesLongSignatures(t *testing.T) {
	c := New()
	want := sig(120)
	c.PutFamily("claude", want)
	got, ok := c.Family("claude")
	if !ok || got != want {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestPutFamilyOverwritesWithMostRecent(t *testing.T) {
	c := New()
	c.PutFamily("claude", sig(100))
	c.PutFamily("claude", sig(110))
	got, ok := c.Family("claude")
	if !ok || got != sig(110) {
		t.Fatalf("expected most recent signature to win, got %q", got)
	}
}
