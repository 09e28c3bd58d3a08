package common

import (
	"testing"

	"github.com/samkirk/gca-bridge/internal/ir"
)

func TestApplyReasoningEffort(t *testing.T) {
	req := &ir.CanonicalRequest{}
	ApplyReasoningEffort(req, "medium")
	if req.GenerationConfig == nil || req.GenerationConfig.Thinking == nil {
		t.Fatalf("expected thinking config to be set")
	}
	if req.GenerationConfig.Thinking.ThinkingBudget != 8192 {
		t.Fatalf("got budget %d", req.GenerationConfig.Thinking.ThinkingBudget)
	}
	if !req.GenerationConfig.Thinking.IncludeThoughts {
		t.Fatalf("expected IncludeThoughts=true")
	}
}

func TestApplyReasoningEffortUnknownIsNoop(t *testing.T) {
	req := &ir.CanonicalRequest{}
	ApplyReasoningEffort(req, "")
	if req.GenerationConfig != nil {
		t.Fatalf("expected no generation config to be created")
	}
}

func TestClampMaxOutputTokensDefaultsWhenUnset(t *testing.T) {
	req := &ir.CanonicalRequest{}
	ClampMaxOutputTokens(req, 0)
	if req.GenerationConfig == nil || req.GenerationConfig.MaxOutputTokens == nil {
		t.Fatalf("expected default to be set")
	}
	if *req.GenerationConfig.MaxOutputTokens != defaultMaxOutputTokens {
		t.Fatalf("got %d", *req.GenerationConfig.MaxOutputTokens)
	}
}

func TestClampMaxOutputTokensRespectsLimit(t *testing.T) {
	v := 100000
	req := &ir.CanonicalRequest{GenerationConfig: &ir.GenerationConfig{MaxOutputTokens: &v}}
	ClampMaxOutputTokens(req, 4096)
	if *req.GenerationConfig.MaxOutputTokens != 4096 {
		t.Fatalf("got %d", *req.GenerationConfig.MaxOutputTokens)
	}
}

func TestEnsureNonEmptyContents(t *testing.T) {
	req := &ir.CanonicalRequest{}
	EnsureNonEmptyContents(req)
	if len(req.Contents) != 1 {
		t.Fatalf("expected padded turn, got %d", len(req.Contents))
	}

	req2 := &ir.CanonicalRequest{Contents: []ir.Content{{Role: ir.RoleUser}}}
	EnsureNonEmptyContents(req2)
	if len(req2.Contents) != 1 {
		t.Fatalf("expected no change to existing contents")
	}
}
