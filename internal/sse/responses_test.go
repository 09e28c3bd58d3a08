package sse

import (
	"bytes"
	"testing"

	"github.com/samkirk/gca-bridge/internal/ir"
)

func TestEmitResponsesPlainText(t *testing.T) {
	chunks := make(chan ir.Chunk, 8)
	chunks <- ir.Chunk{Role: "assistant", Content: "Hi"}
	chunks <- ir.Chunk{Content: " there"}
	chunks <- ir.Chunk{FinishReason: ir.FinishStop, Usage: &ir.Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3}}
	close(chunks)

	var buf bytes.Buffer
	if err := EmitResponses(NewWriter(&buf), "resp_1", "gemini-2.5-flash", chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frames := parseFrames(buf.String())
	wantEvents := []string{
		"response.created", "response.in_progress",
		"response.output_item.added", "response.content_part.added",
		"response.output_text.delta", "response.output_text.delta",
		"response.output_text.done", "response.content_part.done", "response.output_item.done",
		"response.completed",
	}
	if len(frames) != len(wantEvents) {
		t.Fatalf("expected %d events, got %d: %+v", len(wantEvents), len(frames), frames)
	}
	for i, name := range wantEvents {
		if frames[i].event != name {
			t.Fatalf("frame %d: expected %q, got %q", i, name, frames[i].event)
		}
	}
	if status := frameField(frames[9], "response", "status"); status != "completed" {
		t.Fatalf("expected completed status, got %v", status)
	}
}

func TestEmitResponsesToolCallClosesMessageItemFirst(t *testing.T) {
	chunks := make(chan ir.Chunk, 8)
	chunks <- ir.Chunk{Role: "assistant", Content: "checking"}
	chunks <- ir.Chunk{ToolCalls: []ir.ToolCallDelta{{ID: "call_1", Name: "get_weather", ArgumentsDelta: `{"city":"Paris"}`}}}
	chunks <- ir.Chunk{FinishReason: ir.FinishToolCalls}
	close(chunks)

	var buf bytes.Buffer
	if err := EmitResponses(NewWriter(&buf), "resp_2", "gemini-2.5-flash", chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frames := parseFrames(buf.String())
	wantEvents := []string{
		"response.created", "response.in_progress",
		"response.output_item.added", "response.content_part.added", "response.output_text.delta",
		"response.output_text.done", "response.content_part.done", "response.output_item.done",
		"response.output_item.added", "response.function_call_arguments.delta",
		"response.function_call_arguments.done", "response.output_item.done",
		"response.completed",
	}
	if len(frames) != len(wantEvents) {
		t.Fatalf("expected %d events, got %d: %+v", len(wantEvents), len(frames), frames)
	}
	for i, name := range wantEvents {
		if frames[i].event != name {
			t.Fatalf("frame %d: expected %q, got %q", i, name, frames[i].event)
		}
	}
	if name := frameField(frames[8], "item", "name"); name != "get_weather" {
		t.Fatalf("expected function_call item name, got %v", name)
	}
}

func TestEmitResponsesPropagatesStreamError(t *testing.T) {
	chunks := make(chan ir.Chunk, 2)
	chunks <- ir.Chunk{Role: "assistant", Content: "partial"}
	chunks <- ir.Chunk{Err: errBoomSSE{}}
	close(chunks)

	var buf bytes.Buffer
	err := EmitResponses(NewWriter(&buf), "resp_3", "gemini-2.5-flash", chunks)
	if err == nil {
		t.Fatalf("expected error to propagate")
	}
}
