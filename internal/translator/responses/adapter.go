package responses

import (
	"encoding/json"
	"fmt"

	"github.com/samkirk/gca-bridge/internal/translator/openai"
)

// adaptToChatMessages implements spec §4.3's "OpenAI-Responses → OpenAI-Chat
// adapter": it groups adjacent function_call input items into one assistant
// message carrying aggregated tool_calls, and turns each
// function_call_output item into a distinct tool message keyed by call_id.
func adaptToChatMessages(raw json.RawMessage) ([]openai.ChatMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text, _ := json.Marshal(s)
		return []openai.ChatMessage{{Role: "user", Content: text}}, nil
	}

	var items []item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("responses: decoding input: %w", err)
	}

	var out []openai.ChatMessage
	var pendingCalls []openai.ToolCall

	flushPending := func() {
		if len(pendingCalls) == 0 {
			return
		}
		out = append(out, openai.ChatMessage{Role: "assistant", ToolCalls: pendingCalls})
		pendingCalls = nil
	}

	for _, it := range items {
		switch it.Type {
		case "function_call":
			pendingCalls = append(pendingCalls, openai.ToolCall{
				ID:   it.CallID,
				Type: "function",
				Function: openai.ToolCallFunction{
					Name:      it.Name,
					Arguments: it.Arguments,
				},
			})
		case "function_call_output":
			flushPending()
			output, _ := json.Marshal(it.Output)
			out = append(out, openai.ChatMessage{Role: "tool", ToolCallID: it.CallID, Content: output})
		default: // "message" or untyped — role-bearing content turn
			flushPending()
			content, err := flattenInputContent(it.Content)
			if err != nil {
				return nil, err
			}
			role := it.Role
			if role == "" {
				role = "user"
			}
			out = append(out, openai.ChatMessage{Role: role, Content: content})
		}
	}
	flushPending()

	return out, nil
}

// flattenInputContent converts a Responses message's content (a bare
// string, or an array of input_text/input_image parts) into the
// internal/translator/openai ChatMessage Content shape.
func flattenInputContent(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		out, _ := json.Marshal(s)
		return out, nil
	}

	var parts []contentPart
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("responses: decoding content: %w", err)
	}
	type openaiPart struct {
		Type     string `json:"type"`
		Text     string `json:"text,omitempty"`
		ImageURL *struct {
			URL string `json:"url"`
		} `json:"image_url,omitempty"`
	}
	var converted []openaiPart
	for _, p := range parts {
		switch p.Type {
		case "input_text":
			converted = append(converted, openaiPart{Type: "text", Text: p.Text})
		case "input_image":
			converted = append(converted, openaiPart{
				Type: "image_url",
				ImageURL: &struct {
					URL string `json:"url"`
				}{URL: p.ImageURL},
			})
		}
	}
	return json.Marshal(converted)
}
