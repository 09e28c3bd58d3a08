package anthropic

import (
	"testing"

	"github.com/samkirk/gca-bridge/internal/ir"
)

func TestFromAccumulatorToolUseStopReason(t *testing.T) {
	acc := ir.NewAccumulator()
	acc.Add(ir.Chunk{Role: "assistant", ToolCalls: []ir.ToolCallDelta{{Index: 0, ID: "toolu_1", Name: "get_weather"}}})
	acc.Add(ir.Chunk{ToolCalls: []ir.ToolCallDelta{{Index: 0, ArgumentsDelta: `{"city":"Paris"}`}}})
	acc.Add(ir.Chunk{FinishReason: ir.FinishToolCalls})

	resp, err := FromAccumulator("msg_1", "gemini-2.5-pro", acc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != "tool_use" {
		t.Fatalf("got stop reason %q", resp.StopReason)
	}
	if len(resp.Content) != 1 || resp.Content[0].Type != "tool_use" || resp.Content[0].Name != "get_weather" {
		t.Fatalf("got content %#v", resp.Content)
	}
}

func TestFromAccumulatorEmptyResponsePlaceholder(t *testing.T) {
	acc := ir.NewAccumulator()
	acc.Add(ir.Chunk{FinishReason: ir.FinishStop})

	resp, err := FromAccumulator("msg_2", "gemini-2.5-pro", acc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Content) != 1 || resp.Content[0].Text != "[No response received - please try again]" {
		t.Fatalf("got %#v", resp.Content)
	}
	if resp.StopReason != "end_turn" {
		t.Fatalf("got stop reason %q", resp.StopReason)
	}
}
