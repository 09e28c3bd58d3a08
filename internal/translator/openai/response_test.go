package openai

import (
	"testing"

	"github.com/samkirk/gca-bridge/internal/ir"
)

func TestFromAccumulatorPlainText(t *testing.T) {
	acc := ir.NewAccumulator()
	acc.Add(ir.Chunk{Role: "assistant", Content: "Hi "})
	acc.Add(ir.Chunk{Content: "there"})
	acc.Add(ir.Chunk{FinishReason: ir.FinishStop, Usage: &ir.Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3}})

	resp, err := FromAccumulator("chatcmpl-1", "gemini-2.5-flash", 1000, acc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Choices[0].FinishReason != "stop" {
		t.Fatalf("got finish reason %q", resp.Choices[0].FinishReason)
	}
	if resp.Choices[0].Message.Content == nil || *resp.Choices[0].Message.Content != "Hi there" {
		t.Fatalf("got content %#v", resp.Choices[0].Message.Content)
	}
	if resp.Usage.TotalTokens != 3 {
		t.Fatalf("got usage %#v", resp.Usage)
	}
}

func TestFromAccumulatorToolCalls(t *testing.T) {
	acc := ir.NewAccumulator()
	acc.Add(ir.Chunk{Role: "assistant", ToolCalls: []ir.ToolCallDelta{{Index: 0, ID: "call_1", Name: "get_weather"}}})
	acc.Add(ir.Chunk{ToolCalls: []ir.ToolCallDelta{{Index: 0, ArgumentsDelta: `{"city":"Paris"}`}}})
	acc.Add(ir.Chunk{FinishReason: ir.FinishStop})

	resp, err := FromAccumulator("chatcmpl-2", "gemini-2.5-flash", 1000, acc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Choices[0].FinishReason != "tool_calls" {
		t.Fatalf("got finish reason %q", resp.Choices[0].FinishReason)
	}
	if len(resp.Choices[0].Message.ToolCalls) != 1 || resp.Choices[0].Message.ToolCalls[0].Function.Name != "get_weather" {
		t.Fatalf("got tool calls %#v", resp.Choices[0].Message.ToolCalls)
	}
	if resp.Choices[0].Message.ToolCalls[0].Function.Arguments != `{"city":"Paris"}` {
		t.Fatalf("got arguments %q", resp.Choices[0].Message.ToolCalls[0].Function.Arguments)
	}
}
