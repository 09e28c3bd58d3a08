package sse

import (
	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/translator/openai"
)

// EmitChatCompletions re-emits a normalized chunk stream as OpenAI
// Chat-Completions SSE: one chat.completion.chunk object per chunk,
// sharing id and a monotone created timestamp, closed by [DONE]. Tool-call
// deltas pass through verbatim, keyed by the index the Gemini client
// already assigned them.
func EmitChatCompletions(w *Writer, id, model string, created int64, chunks <-chan ir.Chunk) error {
	for c := range chunks {
		if c.Err != nil {
			return c.Err
		}
		if c.Thought {
			// Chat Completions has no reasoning-content slot in this
			// dialect's wire format; thinking deltas are dropped.
			continue
		}

		delta := openai.ChunkDelta{Content: c.Content}
		if c.Role != "" {
			delta.Role = c.Role
		}
		for _, tc := range c.ToolCalls {
			ctc := openai.ChunkToolCall{Index: tc.Index, ID: tc.ID}
			if tc.Name != "" {
				ctc.Type = "function"
				ctc.Function = &openai.ToolCallFunction{Name: tc.Name, Arguments: tc.ArgumentsDelta}
			} else {
				ctc.Function = &openai.ToolCallFunction{Arguments: tc.ArgumentsDelta}
			}
			delta.ToolCalls = append(delta.ToolCalls, ctc)
		}

		chunk := openai.ChunkObject{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   model,
			Choices: []openai.ChunkChoice{{Index: 0, Delta: delta}},
		}
		if c.IsTerminal() {
			reason := string(c.FinishReason)
			chunk.Choices[0].FinishReason = &reason
			if c.Usage != nil {
				chunk.Usage = &openai.ChatUsage{
					PromptTokens:     c.Usage.PromptTokens,
					CompletionTokens: c.Usage.CompletionTokens,
					TotalTokens:      c.Usage.TotalTokens,
				}
			}
		}
		if err := w.Data(chunk); err != nil {
			return err
		}
	}
	return w.Done()
}
