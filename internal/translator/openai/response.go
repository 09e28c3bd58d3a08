package openai

import (
	"encoding/json"

	"github.com/samkirk/gca-bridge/internal/ir"
)

// FromAccumulator builds the non-streaming chat.completion response object
// described in spec §4.3's "Response mapping" paragraph.
func FromAccumulator(id, model string, created int64, acc *ir.Accumulator) (*ChatCompletion, error) {
	finish := acc.DetermineFinishReason()

	msg := ChatRespMsg{Role: "assistant"}
	if acc.Text != "" || !acc.HasToolCalls() {
		text := acc.Text
		msg.Content = &text
	}

	for _, tc := range acc.OrderedToolCalls() {
		args, err := tc.ParseArguments()
		if err != nil {
			return nil, err
		}
		argsJSON, err := json.Marshal(args)
		if err != nil {
			return nil, err
		}
		id := tc.ID
		if id == "" {
			id = newToolCallID()
		}
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:   id,
			Type: "function",
			Function: ToolCallFunction{
				Name:      tc.Name,
				Arguments: string(argsJSON),
			},
		})
	}

	resp := &ChatCompletion{
		ID:      id,
		Object:  "chat.completion",
		Created: created,
		Model:   model,
		Choices: []ChatChoice{{
			Index:        0,
			Message:      msg,
			FinishReason: string(finish),
		}},
	}
	if acc.Usage != nil {
		resp.Usage = &ChatUsage{
			PromptTokens:     acc.Usage.PromptTokens,
			CompletionTokens: acc.Usage.CompletionTokens,
			TotalTokens:      acc.Usage.TotalTokens,
		}
	}
	return resp, nil
}
