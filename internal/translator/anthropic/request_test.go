package anthropic

import (
	"testing"

	"github.com/samkirk/gca-bridge/internal/apierr"
	"github.com/samkirk/gca-bridge/internal/ir"
)

func TestToCanonicalRequiresMaxTokens(t *testing.T) {
	req := &MessagesRequest{Model: "gemini-2.5-pro", Messages: []Message{{Role: "user", Content: []byte(`"hi"`)}}}
	_, err := ToCanonical(req)
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := err.(apierr.InvalidRequest); !ok {
		t.Fatalf("got %T", err)
	}
}

func TestToCanonicalBasicTurn(t *testing.T) {
	maxTokens := 1024
	req := &MessagesRequest{
		Model:     "gemini-2.5-pro",
		MaxTokens: &maxTokens,
		System:    []byte(`"be nice"`),
		Messages:  []Message{{Role: "user", Content: []byte(`"hello"`)}},
	}
	out, err := ToCanonical(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.SystemInstruction.Parts[0].Text != "be nice" {
		t.Fatalf("got %#v", out.SystemInstruction)
	}
	if len(out.Contents) != 1 || out.Contents[0].Parts[0].Text != "hello\n" {
		t.Fatalf("got %#v", out.Contents)
	}
	if *out.GenerationConfig.MaxOutputTokens != 1024 {
		t.Fatalf("got max tokens %d", *out.GenerationConfig.MaxOutputTokens)
	}
}

func TestToCanonicalToolUseAndResult(t *testing.T) {
	maxTokens := 1024
	req := &MessagesRequest{
		Model:     "gemini-2.5-pro",
		MaxTokens: &maxTokens,
		Tools:     []Tool{{Name: "get_weather", InputSchema: map[string]any{"type": "object"}}},
		Messages: []Message{
			{Role: "user", Content: []byte(`"what's the weather"`)},
			{Role: "assistant", Content: []byte(`[{"type":"tool_use","id":"toolu_1","name":"get_weather","input":{"city":"Paris"}}]`)},
			{Role: "user", Content: []byte(`[{"type":"tool_result","tool_use_id":"toolu_1","content":"Sunny"}]`)},
		},
	}
	out, err := ToCanonical(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assistantTurn := out.Contents[1]
	if assistantTurn.Parts[0].Kind != ir.PartFunctionCall || assistantTurn.Parts[0].ThoughtSignature != skipThoughtSignatureValidator {
		t.Fatalf("got %#v", assistantTurn.Parts[0])
	}
	toolTurn := out.Contents[2]
	if toolTurn.Parts[0].ResponseName != "get_weather" || toolTurn.Parts[0].Response["result"] != "Sunny" {
		t.Fatalf("got %#v", toolTurn.Parts[0])
	}
	// interleaved-thinking hint appended because tools are present.
	if out.SystemInstruction == nil {
		t.Fatalf("expected system instruction with thinking hint")
	}
}

func TestToCanonicalThinkingBlockDropped(t *testing.T) {
	maxTokens := 1024
	req := &MessagesRequest{
		Model:     "gemini-2.5-pro",
		MaxTokens: &maxTokens,
		Messages: []Message{
			{Role: "assistant", Content: []byte(`[{"type":"thinking","thinking":"pondering","signature":"sig"}]`)},
		},
	}
	out, err := ToCanonical(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// empty-part guard pads with a single "." text part.
	if len(out.Contents[0].Parts) != 1 || out.Contents[0].Parts[0].Text != "." {
		t.Fatalf("got %#v", out.Contents[0].Parts)
	}
}
