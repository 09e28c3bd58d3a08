package gemini

import (
	"testing"

	"github.com/samkirk/gca-bridge/internal/ir"
)

func TestToWireRequestBasic(t *testing.T) {
	budget := 1024
	maxTokens := 2048
	req := &ir.CanonicalRequest{
		Model:     "gemini-2.5-pro",
		ProjectID: "proj-1",
		Contents: []ir.Content{
			{Role: ir.RoleUser, Parts: []ir.Part{{Kind: ir.PartText, Text: "hi"}}},
		},
		SystemInstruction: &ir.Content{Role: ir.RoleUser, Parts: []ir.Part{{Kind: ir.PartText, Text: "be nice"}}},
		Tools: []ir.FunctionDeclaration{
			{Name: "get_weather", Description: "weather lookup", Parameters: map[string]any{"type": "object"}},
		},
		ToolConfig: &ir.ToolConfig{Mode: ir.ModeAny, AllowedFunctionNames: []string{"get_weather"}},
		GenerationConfig: &ir.GenerationConfig{
			MaxOutputTokens: &maxTokens,
			Thinking:        &ir.ThinkingConfig{ThinkingBudget: budget, IncludeThoughts: true},
		},
	}

	wire := toWireRequest(req, "prompt-1", "chat-1")

	if wire.Model != "gemini-2.5-pro" || wire.Project != "proj-1" || wire.UserPromptID != "prompt-1" {
		t.Fatalf("unexpected envelope: %+v", wire)
	}
	if wire.Request.SessionID != "chat-1" {
		t.Fatalf("expected session id set, got %+v", wire.Request)
	}
	if wire.Request.SystemInstruction == nil || wire.Request.SystemInstruction.Parts[0].Text != "be nice" {
		t.Fatalf("system instruction not carried through: %+v", wire.Request.SystemInstruction)
	}
	if len(wire.Request.Tools) != 1 || wire.Request.Tools[0].FunctionDeclarations[0].Name != "get_weather" {
		t.Fatalf("tool declarations not carried through: %+v", wire.Request.Tools)
	}
	if wire.Request.ToolConfig == nil || wire.Request.ToolConfig.FunctionCallingConfig.Mode != "ANY" {
		t.Fatalf("tool config not carried through: %+v", wire.Request.ToolConfig)
	}
	if wire.Request.GenerationConfig == nil || wire.Request.GenerationConfig.ThinkingConfig.ThinkingBudget != 1024 {
		t.Fatalf("thinking config not carried through: %+v", wire.Request.GenerationConfig)
	}
	if *wire.Request.GenerationConfig.MaxOutputTokens != 2048 {
		t.Fatalf("max output tokens not carried through: %+v", wire.Request.GenerationConfig)
	}
}

func TestToWirePartFunctionCall(t *testing.T) {
	p := ir.Part{Kind: ir.PartFunctionCall, FunctionName: "f", FunctionArgs: map[string]any{"x": 1}, ThoughtSignature: "sig"}
	w := toWirePart(p)
	if w.FunctionCall == nil || w.FunctionCall.Name != "f" {
		t.Fatalf("got %+v", w)
	}
	if w.ThoughtSignature != "sig" {
		t.Fatalf("expected signature carried on function-call part, got %+v", w)
	}
}

func TestToWirePartInlineData(t *testing.T) {
	p := ir.Part{Kind: ir.PartInlineData, MimeType: "image/png", Data: "YWJj"}
	w := toWirePart(p)
	if w.InlineData == nil || w.InlineData.MimeType != "image/png" || w.InlineData.Data != "YWJj" {
		t.Fatalf("got %+v", w)
	}
}
