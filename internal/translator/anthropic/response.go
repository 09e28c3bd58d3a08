package anthropic

import (
	"github.com/samkirk/gca-bridge/internal/ir"
)

// FromAccumulator builds the non-streaming Anthropic message response.
func FromAccumulator(id, model string, acc *ir.Accumulator) (*MessagesResponse, error) {
	var content []ResponseBlock
	if acc.Text != "" {
		content = append(content, ResponseBlock{Type: "text", Text: acc.Text})
	}
	for _, tc := range acc.OrderedToolCalls() {
		args, err := tc.ParseArguments()
		if err != nil {
			return nil, err
		}
		content = append(content, ResponseBlock{Type: "tool_use", ID: tc.ID, Name: tc.Name, Input: args})
	}
	if len(content) == 0 {
		content = append(content, ResponseBlock{Type: "text", Text: "[No response received - please try again]"})
	}

	stopReason := "end_turn"
	switch acc.DetermineFinishReason() {
	case ir.FinishToolCalls:
		stopReason = "tool_use"
	case ir.FinishLength:
		stopReason = "max_tokens"
	}

	resp := &MessagesResponse{
		ID:         id,
		Type:       "message",
		Role:       "assistant",
		Model:      model,
		Content:    content,
		StopReason: stopReason,
	}
	if acc.Usage != nil {
		resp.Usage = Usage{InputTokens: acc.Usage.PromptTokens, OutputTokens: acc.Usage.CompletionTokens}
	}
	return resp, nil
}
