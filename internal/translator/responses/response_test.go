package responses

import (
	"testing"

	"github.com/samkirk/gca-bridge/internal/ir"
)

func TestFromAccumulatorTextAndFunctionCall(t *testing.T) {
	acc := ir.NewAccumulator()
	acc.Add(ir.Chunk{Role: "assistant", Content: "ok"})
	acc.Add(ir.Chunk{ToolCalls: []ir.ToolCallDelta{{Index: 0, ID: "call_1", Name: "t"}}})
	acc.Add(ir.Chunk{ToolCalls: []ir.ToolCallDelta{{Index: 0, ArgumentsDelta: "{}"}}})
	acc.Add(ir.Chunk{FinishReason: ir.FinishToolCalls})

	resp, err := FromAccumulator("resp_1", "gemini-2.5-pro", acc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Output) != 2 {
		t.Fatalf("got %d output items: %#v", len(resp.Output), resp.Output)
	}
	if resp.Output[0].Type != "message" || resp.Output[0].Content[0].Text != "ok" {
		t.Fatalf("got %#v", resp.Output[0])
	}
	if resp.Output[1].Type != "function_call" || resp.Output[1].Name != "t" {
		t.Fatalf("got %#v", resp.Output[1])
	}
}
