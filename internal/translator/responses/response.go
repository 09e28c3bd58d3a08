package responses

import (
	"github.com/samkirk/gca-bridge/internal/ir"
)

// FromAccumulator builds the non-streaming Responses-API response object:
// an output array of {type: message, ...} and {type: function_call, ...}
// items, per spec §4.3.
func FromAccumulator(id, model string, acc *ir.Accumulator) (*Response, error) {
	var output []OutputItem

	if acc.Text != "" {
		output = append(output, OutputItem{
			Type:    "message",
			Role:    "assistant",
			Status:  "completed",
			Content: []OutputContent{{Type: "output_text", Text: acc.Text}},
		})
	}

	for _, tc := range acc.OrderedToolCalls() {
		output = append(output, OutputItem{
			Type:      "function_call",
			CallID:    tc.ID,
			Name:      tc.Name,
			Arguments: tc.Arguments,
			Status:    "completed",
		})
	}

	resp := &Response{
		ID:     id,
		Object: "response",
		Model:  model,
		Status: "completed",
		Output: output,
	}
	if acc.Usage != nil {
		resp.Usage = &ResponseUsage{
			InputTokens:  acc.Usage.PromptTokens,
			OutputTokens: acc.Usage.CompletionTokens,
			TotalTokens:  acc.Usage.TotalTokens,
		}
	}
	return resp, nil
}
