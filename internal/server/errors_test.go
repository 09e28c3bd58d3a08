package server

import (
	"strings"
	"testing"

	"github.com/samkirk/gca-bridge/internal/apierr"
)

func TestFormatRateLimitMessageWithResetHint(t *testing.T) {
	msg := formatRateLimitMessage(apierr.RateLimit{Model: "gemini-2.5-pro", ResetAfterMS: 45000})
	if !strings.Contains(msg, "RESOURCE_EXHAUSTED: Rate limited on gemini-2.5-pro") {
		t.Fatalf("got %q", msg)
	}
	if !strings.Contains(msg, "45 second(s)") {
		t.Fatalf("expected a 45-second reset estimate, got %q", msg)
	}
}

func TestFormatRateLimitMessageWithoutResetHintForwardsBody(t *testing.T) {
	msg := formatRateLimitMessage(apierr.RateLimit{Model: "gemini-2.5-pro", Message: "quota exceeded"})
	if !strings.Contains(msg, "quota exceeded") {
		t.Fatalf("expected raw upstream body forwarded, got %q", msg)
	}
}
