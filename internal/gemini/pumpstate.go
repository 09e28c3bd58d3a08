package gemini

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/sigcache"
)

// pumpState tracks the per-stream lifecycle needed to emit spec §4.4's
// normalized chunk ordering: the open/closed thinking block, whether the
// role has been emitted yet, whether any tool call was seen, and the
// latest usage observed.
type pumpState struct {
	model  string
	family string

	roleEmitted   bool
	thinkingOpen  bool
	sawToolCall   bool
	finishEmitted bool
	usage         *ir.Usage
}

func (s *pumpState) role() string {
	if s.roleEmitted {
		return ""
	}
	s.roleEmitted = true
	return "assistant"
}

// emitPart converts one wire content part into zero or more normalized
// chunks, applying the thinking-block open/close rules.
func (s *pumpState) emitPart(sig *sigcache.Cache, part wirePart, out chan<- ir.Chunk) {
	switch {
	case part.FunctionCall != nil:
		s.closeThinking(out)

		args, err := json.Marshal(part.FunctionCall.Args)
		if err != nil {
			args = []byte("{}")
		}
		id := "call_" + uuid.NewString()
		s.sawToolCall = true
		out <- ir.Chunk{
			Role: s.role(),
			ToolCalls: []ir.ToolCallDelta{{
				Index:            0,
				ID:               id,
				Name:             part.FunctionCall.Name,
				ArgumentsDelta:   string(args),
				ThoughtSignature: part.ThoughtSignature,
			}},
		}

	case part.FunctionResponse != nil:
		// Gemini never streams a function-response part back to the
		// client; nothing to emit.

	case part.Thought:
		start := !s.thinkingOpen
		s.thinkingOpen = true
		if part.ThoughtSignature != "" {
			sig.PutFamily(s.family, part.ThoughtSignature)
		}
		out <- ir.Chunk{
			Role:          s.role(),
			Content:       part.Text,
			Thought:       true,
			ThinkingStart: start,
		}

	default:
		s.closeThinking(out)
		out <- ir.Chunk{Role: s.role(), Content: part.Text}
	}
}

func (s *pumpState) closeThinking(out chan<- ir.Chunk) {
	if !s.thinkingOpen {
		return
	}
	s.thinkingOpen = false
	out <- ir.Chunk{Role: s.role(), ThinkingEnd: true}
}

// emitFinal emits the single terminal chunk per spec §4.4/invariant 4: if
// err is non-nil the stream aborted and the chunk carries it instead of a
// finish reason. geminiFinishReason is the raw candidate.finishReason wire
// value ("", "STOP", "MAX_TOKENS", "SAFETY", "RECITATION", ...); a tool
// call seen in this stream always wins over it.
func (s *pumpState) emitFinal(out chan<- ir.Chunk, geminiFinishReason string, err error) {
	if s.finishEmitted {
		return
	}
	s.finishEmitted = true

	if err != nil {
		out <- ir.Chunk{Err: err}
		return
	}

	reason := finishReasonFromGemini(geminiFinishReason)
	if s.sawToolCall {
		reason = ir.FinishToolCalls
	}
	out <- ir.Chunk{
		FinishReason: reason,
		Usage:        s.usage,
	}
}

// finishReasonFromGemini maps the wire finishReason string to the
// normalized enum per spec §3/invariant 5: length-truncation and
// safety/recitation blocks must surface as their own reasons rather than
// collapsing to stop.
func finishReasonFromGemini(raw string) ir.FinishReason {
	switch raw {
	case "", "STOP":
		return ir.FinishStop
	case "MAX_TOKENS":
		return ir.FinishLength
	default:
		return ir.FinishContentFilter
	}
}
