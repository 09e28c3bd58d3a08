package util

import (
	"testing"

	"github.com/samkirk/gca-bridge/internal/ir"
)

func TestEstimateUsageNonZero(t *testing.T) {
	req := &ir.CanonicalRequest{
		Model: "gemini-2.5-pro",
		Contents: []ir.Content{
			{Role: ir.RoleUser, Parts: []ir.Part{{Kind: ir.PartText, Text: "hello there, how are you today?"}}},
		},
	}
	u := EstimateUsage("gemini-2.5-pro", req, "I'm doing well, thanks for asking!")
	if !u.Estimated {
		t.Fatalf("expected Estimated=true")
	}
	if u.PromptTokens == 0 || u.CompletionTokens == 0 {
		t.Fatalf("got %#v", u)
	}
	if u.TotalTokens != u.PromptTokens+u.CompletionTokens {
		t.Fatalf("got %#v", u)
	}
}
