package sse

import (
	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/sigcache"
)

// anthropicBlock is the open content-block kind the emitter is currently
// inside, per spec §4.6's block-lifecycle state machine.
type anthropicBlock int

const (
	blockNone anthropicBlock = iota
	blockThinking
	blockText
	blockToolUse
)

type messageStartBody struct {
	Type    string               `json:"type"`
	Message anthropicMessageStub `json:"message"`
}

type anthropicMessageStub struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []any          `json:"content"`
	StopReason *string        `json:"stop_reason"`
	Usage      anthropicUsage `json:"usage"`
}

type anthropicUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
}

type contentBlockStart struct {
	Type         string             `json:"type"`
	Index        int                `json:"index"`
	ContentBlock anthropicContentBlock `json:"content_block"`
}

type anthropicContentBlock struct {
	Type     string         `json:"type"`
	Text     *string        `json:"text,omitempty"`
	Thinking *string        `json:"thinking,omitempty"`
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name,omitempty"`
	Input    map[string]any `json:"input,omitempty"`
}

type contentBlockDelta struct {
	Type  string             `json:"type"`
	Index int                `json:"index"`
	Delta anthropicDeltaBody `json:"delta"`
}

type anthropicDeltaBody struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	Thinking    string `json:"thinking,omitempty"`
	Signature   string `json:"signature,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
}

type contentBlockStop struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

type messageDeltaBody struct {
	Type  string             `json:"type"`
	Delta messageDeltaInner  `json:"delta"`
	Usage anthropicUsage     `json:"usage"`
}

type messageDeltaInner struct {
	StopReason string `json:"stop_reason"`
}

type messageStopBody struct {
	Type string `json:"type"`
}

type errorBody struct {
	Type  string      `json:"type"`
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// anthropicEmitter runs spec §4.6's Anthropic Messages block-lifecycle
// state machine over one chunk stream.
type anthropicEmitter struct {
	w   *Writer
	sig *sigcache.Cache

	id, model, family string

	started     bool
	anyContent  bool
	block       anthropicBlock
	blockIndex  int
	sawToolCall bool
}

// EmitMessages re-emits a normalized chunk stream as Anthropic Messages
// SSE, tracking the open content-block type and a monotonic block index
// as spec §4.6 requires.
func EmitMessages(w *Writer, sig *sigcache.Cache, id, model string, chunks <-chan ir.Chunk) error {
	e := &anthropicEmitter{w: w, sig: sig, id: id, model: model, family: ir.ModelFamily(model)}
	for c := range chunks {
		if c.Err != nil {
			return e.abort(c.Err)
		}
		if err := e.handle(c); err != nil {
			return err
		}
		if c.IsTerminal() {
			return nil
		}
	}
	return nil
}

func (e *anthropicEmitter) handle(c ir.Chunk) error {
	if c.ThinkingEnd {
		return e.closeBlock()
	}

	switch {
	case c.Thought:
		if err := e.ensureStarted(); err != nil {
			return err
		}
		if e.block != blockThinking {
			if err := e.closeBlock(); err != nil {
				return err
			}
			if err := e.openThinking(); err != nil {
				return err
			}
		}
		e.anyContent = true
		return e.w.Event("content_block_delta", contentBlockDelta{
			Type: "content_block_delta", Index: e.blockIndex,
			Delta: anthropicDeltaBody{Type: "thinking_delta", Thinking: c.Content},
		})

	case len(c.ToolCalls) > 0:
		if err := e.ensureStarted(); err != nil {
			return err
		}
		for _, tc := range c.ToolCalls {
			if e.block != blockToolUse {
				if err := e.closeBlock(); err != nil {
					return err
				}
			}
			id := tc.ID
			if id == "" {
				id = newToolUseID()
			}
			if err := e.openToolUse(id, tc.Name); err != nil {
				return err
			}
			e.sawToolCall = true
			e.anyContent = true
			if tc.ArgumentsDelta != "" {
				if err := e.w.Event("content_block_delta", contentBlockDelta{
					Type: "content_block_delta", Index: e.blockIndex,
					Delta: anthropicDeltaBody{Type: "input_json_delta", PartialJSON: tc.ArgumentsDelta},
				}); err != nil {
					return err
				}
			}
			// Gemini hands back one complete function call per part, so
			// the block closes immediately rather than waiting for more
			// argument deltas.
			if err := e.closeBlock(); err != nil {
				return err
			}
		}
		return nil

	case c.Content != "":
		if err := e.ensureStarted(); err != nil {
			return err
		}
		if e.block != blockText {
			if err := e.closeBlock(); err != nil {
				return err
			}
			if err := e.openText(); err != nil {
				return err
			}
		}
		e.anyContent = true
		return e.w.Event("content_block_delta", contentBlockDelta{
			Type: "content_block_delta", Index: e.blockIndex,
			Delta: anthropicDeltaBody{Type: "text_delta", Text: c.Content},
		})

	case c.IsTerminal():
		return e.finish(c)
	}
	return nil
}

func (e *anthropicEmitter) ensureStarted() error {
	if e.started {
		return nil
	}
	e.started = true
	return e.w.Event("message_start", messageStartBody{
		Type: "message_start",
		Message: anthropicMessageStub{
			ID: e.id, Type: "message", Role: "assistant", Model: e.model,
			Content: []any{},
		},
	})
}

func (e *anthropicEmitter) openThinking() error {
	e.block = blockThinking
	empty := ""
	return e.w.Event("content_block_start", contentBlockStart{
		Type: "content_block_start", Index: e.blockIndex,
		ContentBlock: anthropicContentBlock{Type: "thinking", Thinking: &empty},
	})
}

func (e *anthropicEmitter) openText() error {
	e.block = blockText
	empty := ""
	return e.w.Event("content_block_start", contentBlockStart{
		Type: "content_block_start", Index: e.blockIndex,
		ContentBlock: anthropicContentBlock{Type: "text", Text: &empty},
	})
}

func (e *anthropicEmitter) openToolUse(id, name string) error {
	e.block = blockToolUse
	return e.w.Event("content_block_start", contentBlockStart{
		Type: "content_block_start", Index: e.blockIndex,
		ContentBlock: anthropicContentBlock{Type: "tool_use", ID: id, Name: name, Input: map[string]any{}},
	})
}

// closeBlock closes whatever block is open, emitting a signature_delta
// first if one is open on a thinking block (spec §4.6 rule 3), then bumps
// the block index for whatever opens next.
func (e *anthropicEmitter) closeBlock() error {
	if e.block == blockNone {
		return nil
	}
	if e.block == blockThinking {
		if signature, ok := e.sig.Family(e.family); ok {
			if err := e.w.Event("content_block_delta", contentBlockDelta{
				Type: "content_block_delta", Index: e.blockIndex,
				Delta: anthropicDeltaBody{Type: "signature_delta", Signature: signature},
			}); err != nil {
				return err
			}
		}
	}
	if err := e.w.Event("content_block_stop", contentBlockStop{Type: "content_block_stop", Index: e.blockIndex}); err != nil {
		return err
	}
	e.block = blockNone
	e.blockIndex++
	return nil
}

func (e *anthropicEmitter) finish(c ir.Chunk) error {
	if err := e.ensureStarted(); err != nil {
		return err
	}
	if !e.anyContent {
		if err := e.openText(); err != nil {
			return err
		}
		if err := e.w.Event("content_block_delta", contentBlockDelta{
			Type: "content_block_delta", Index: e.blockIndex,
			Delta: anthropicDeltaBody{Type: "text_delta", Text: "[No response received - please try again]"},
		}); err != nil {
			return err
		}
	}
	if err := e.closeBlock(); err != nil {
		return err
	}

	stopReason := "end_turn"
	switch {
	case e.sawToolCall:
		stopReason = "tool_use"
	case c.FinishReason == ir.FinishLength:
		stopReason = "max_tokens"
	}
	usage := anthropicUsage{}
	if c.Usage != nil {
		usage.OutputTokens = c.Usage.CompletionTokens
	}
	if err := e.w.Event("message_delta", messageDeltaBody{
		Type:  "message_delta",
		Delta: messageDeltaInner{StopReason: stopReason},
		Usage: usage,
	}); err != nil {
		return err
	}
	return e.w.Event("message_stop", messageStopBody{Type: "message_stop"})
}

// abort implements spec §7's StreamAborted handling: headers are already
// sent, so the emitter surfaces a dialect error event and returns the
// underlying error for the caller to log, without touching the HTTP
// status.
func (e *anthropicEmitter) abort(err error) error {
	_ = e.w.Event("error", errorBody{Type: "error", Error: errorDetail{Type: "api_error", Message: err.Error()}})
	return err
}
