package responses

import (
	"encoding/json"

	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/translator/openai"
)

// ToCanonical adapts a Responses API request into the Chat Completions
// shape and delegates to internal/translator/openai for the actual
// Gemini-request construction, per spec §4.3.
func ToCanonical(req *Request) (*ir.CanonicalRequest, error) {
	messages, err := adaptToChatMessages(req.Input)
	if err != nil {
		return nil, err
	}
	if req.Instructions != "" {
		instructions, _ := json.Marshal(req.Instructions)
		messages = append([]openai.ChatMessage{{Role: "system", Content: instructions}}, messages...)
	}

	chatReq := &openai.ChatRequest{
		Model:      req.Model,
		Messages:   messages,
		ToolChoice: req.ToolChoice,
	}
	for _, t := range req.Tools {
		chatReq.Tools = append(chatReq.Tools, openai.Tool{
			Type: t.Type,
			Function: openai.ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	if req.Reasoning != nil {
		chatReq.ReasoningEffort = req.Reasoning.Effort
	}

	return openai.ToCanonical(chatReq)
}
