package sse

import (
	"bytes"
	"testing"

	"github.com/samkirk/gca-bridge/internal/ir"
)

func TestEmitChatCompletionsPlainText(t *testing.T) {
	chunks := make(chan ir.Chunk, 8)
	chunks <- ir.Chunk{Role: "assistant", Content: "Hi"}
	chunks <- ir.Chunk{Content: " there"}
	chunks <- ir.Chunk{FinishReason: ir.FinishStop, Usage: &ir.Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3}}
	close(chunks)

	var buf bytes.Buffer
	if err := EmitChatCompletions(NewWriter(&buf), "chatcmpl-1", "gemini-2.5-flash", 1000, chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frames := parseFrames(buf.String())
	if len(frames) != 4 {
		t.Fatalf("expected 3 chunks + [DONE], got %d: %+v", len(frames), frames)
	}
	if frames[3].data != "[DONE]" {
		t.Fatalf("expected terminal [DONE] frame, got %+v", frames[3])
	}
	if role := frameField(frames[0], "choices", "0", "delta", "role"); role != "assistant" {
		t.Fatalf("expected role on first frame, got %v", role)
	}
	if finish := frameField(frames[2], "choices", "0", "finish_reason"); finish != "stop" {
		t.Fatalf("expected finish_reason stop, got %v", finish)
	}
}

func TestEmitChatCompletionsToolCall(t *testing.T) {
	chunks := make(chan ir.Chunk, 4)
	chunks <- ir.Chunk{Role: "assistant", ToolCalls: []ir.ToolCallDelta{{Index: 0, ID: "call_1", Name: "get_weather", ArgumentsDelta: `{"city":"Paris"}`}}}
	chunks <- ir.Chunk{FinishReason: ir.FinishToolCalls}
	close(chunks)

	var buf bytes.Buffer
	if err := EmitChatCompletions(NewWriter(&buf), "chatcmpl-2", "gemini-2.5-flash", 1000, chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frames := parseFrames(buf.String())
	if len(frames) != 3 {
		t.Fatalf("expected 2 chunks + [DONE], got %d: %+v", len(frames), frames)
	}
	if name := frameField(frames[0], "choices", "0", "delta", "tool_calls", "0", "function", "name"); name != "get_weather" {
		t.Fatalf("expected tool call name, got %v", name)
	}
}

func TestEmitChatCompletionsDropsThoughtDeltas(t *testing.T) {
	chunks := make(chan ir.Chunk, 4)
	chunks <- ir.Chunk{Role: "assistant", Content: "pondering", Thought: true, ThinkingStart: true}
	chunks <- ir.Chunk{ThinkingEnd: true}
	chunks <- ir.Chunk{Content: "answer"}
	chunks <- ir.Chunk{FinishReason: ir.FinishStop}
	close(chunks)

	var buf bytes.Buffer
	if err := EmitChatCompletions(NewWriter(&buf), "chatcmpl-3", "gemini-2.5-flash", 1000, chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frames := parseFrames(buf.String())
	// ThinkingEnd carries no Content/ToolCalls but also isn't "Thought",
	// so it still passes through as an (empty) content delta; only the
	// Thought-marked chunk is dropped.
	if len(frames) != 4 {
		t.Fatalf("expected 3 chunks + [DONE], got %d: %+v", len(frames), frames)
	}
}

func TestEmitChatCompletionsPropagatesStreamError(t *testing.T) {
	chunks := make(chan ir.Chunk, 2)
	chunks <- ir.Chunk{Role: "assistant", Content: "partial"}
	chunks <- ir.Chunk{Err: errBoomSSE{}}
	close(chunks)

	var buf bytes.Buffer
	err := EmitChatCompletions(NewWriter(&buf), "chatcmpl-4", "gemini-2.5-flash", 1000, chunks)
	if err == nil {
		t.Fatalf("expected error to propagate")
	}
}

type errBoomSSE struct{}

func (errBoomSSE) Error() string { return "boom" }
