package server

import (
	"testing"

	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/registry"
)

func TestResolveModelAppliesAliasAndFamily(t *testing.T) {
	r := registry.NewResolver()
	req := &ir.CanonicalRequest{}
	canonical, upstream := resolveModel(r, "gemini-3-pro-high", req)
	if canonical != "gemini-3-pro-preview" || upstream != "gemini-3-pro-preview" {
		t.Fatalf("got canonical=%q upstream=%q", canonical, upstream)
	}
}

func TestResolveModelAppliesThinkingBudgetSuffix(t *testing.T) {
	r := registry.NewResolver()
	req := &ir.CanonicalRequest{}
	_, _ = resolveModel(r, "gemini-2.5-pro[4096m]", req)
	if req.GenerationConfig == nil || req.GenerationConfig.Thinking == nil {
		t.Fatalf("expected thinking config to be set from the suffix")
	}
	if req.GenerationConfig.Thinking.ThinkingBudget != 4096 {
		t.Fatalf("got budget %d", req.GenerationConfig.Thinking.ThinkingBudget)
	}
}

func TestResolveModelDefaultsOnEmptyName(t *testing.T) {
	r := registry.NewResolver()
	req := &ir.CanonicalRequest{}
	canonical, _ := resolveModel(r, "", req)
	if canonical != registry.DefaultModel {
		t.Fatalf("got %q", canonical)
	}
}
