package sse

import (
	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/translator/responses"
)

type responseStub struct {
	ID     string `json:"id"`
	Object string `json:"object"`
	Model  string `json:"model"`
	Status string `json:"status"`
}

type responsesEnvelope struct {
	Type     string       `json:"type"`
	Response responseStub `json:"response"`
}

type outputItemAdded struct {
	Type        string           `json:"type"`
	OutputIndex int              `json:"output_index"`
	Item        responsesItemStub `json:"item"`
}

type responsesItemStub struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Status    string `json:"status,omitempty"`
	Role      string `json:"role,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

type contentPartAdded struct {
	Type         string       `json:"type"`
	OutputIndex  int          `json:"output_index"`
	ItemID       string       `json:"item_id"`
	ContentIndex int          `json:"content_index"`
	Part         responsesPart `json:"part"`
}

type responsesPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outputTextDelta struct {
	Type         string `json:"type"`
	OutputIndex  int    `json:"output_index"`
	ItemID       string `json:"item_id"`
	ContentIndex int    `json:"content_index"`
	Delta        string `json:"delta"`
}

type outputTextDone struct {
	Type         string `json:"type"`
	OutputIndex  int    `json:"output_index"`
	ItemID       string `json:"item_id"`
	ContentIndex int    `json:"content_index"`
	Text         string `json:"text"`
}

type contentPartDone struct {
	Type         string       `json:"type"`
	OutputIndex  int          `json:"output_index"`
	ItemID       string       `json:"item_id"`
	ContentIndex int          `json:"content_index"`
	Part         responsesPart `json:"part"`
}

type outputItemDone struct {
	Type        string           `json:"type"`
	OutputIndex int              `json:"output_index"`
	Item        responsesItemStub `json:"item"`
}

type functionCallArgsDelta struct {
	Type        string `json:"type"`
	OutputIndex int    `json:"output_index"`
	ItemID      string `json:"item_id"`
	Delta       string `json:"delta"`
}

type functionCallArgsDone struct {
	Type        string `json:"type"`
	OutputIndex int    `json:"output_index"`
	ItemID      string `json:"item_id"`
	Arguments   string `json:"arguments"`
}

type responseCompleted struct {
	Type     string             `json:"type"`
	Response *responses.Response `json:"response"`
}

// responsesEmitter runs spec §4.6's Responses-API output-item state
// machine over one chunk stream.
type responsesEmitter struct {
	w         *Writer
	id, model string

	outputIndex int
	acc         *ir.Accumulator

	messageItemID      string
	messageItemEmitted bool

	toolItemID string
	toolOpen   bool
}

// EmitResponses re-emits a normalized chunk stream as Responses-API SSE.
func EmitResponses(w *Writer, id, model string, chunks <-chan ir.Chunk) error {
	e := &responsesEmitter{w: w, id: id, model: model, acc: ir.NewAccumulator()}
	if err := e.start(); err != nil {
		return err
	}
	for c := range chunks {
		if c.Err != nil {
			return c.Err
		}
		e.acc.Add(c)
		if err := e.handle(c); err != nil {
			return err
		}
		if c.IsTerminal() {
			return e.finish()
		}
	}
	return nil
}

func (e *responsesEmitter) start() error {
	stub := responseStub{ID: e.id, Object: "response", Model: e.model, Status: "in_progress"}
	if err := e.w.Event("response.created", responsesEnvelope{Type: "response.created", Response: stub}); err != nil {
		return err
	}
	return e.w.Event("response.in_progress", responsesEnvelope{Type: "response.in_progress", Response: stub})
}

func (e *responsesEmitter) handle(c ir.Chunk) error {
	switch {
	case c.Thought:
		// The Responses dialect has no reasoning-item slot here; thinking
		// deltas are dropped, same as the Chat-Completions emitter.
		return nil

	case len(c.ToolCalls) > 0:
		if err := e.closeMessageItem(); err != nil {
			return err
		}
		for _, tc := range c.ToolCalls {
			if err := e.openToolItem(tc); err != nil {
				return err
			}
			if tc.ArgumentsDelta != "" {
				if err := e.w.Event("response.function_call_arguments.delta", functionCallArgsDelta{
					Type: "response.function_call_arguments.delta", OutputIndex: e.outputIndex,
					ItemID: e.toolItemID, Delta: tc.ArgumentsDelta,
				}); err != nil {
					return err
				}
			}
			if err := e.closeToolItem(tc); err != nil {
				return err
			}
		}
		return nil

	case c.Content != "":
		if !e.messageItemEmitted {
			if err := e.openMessageItem(); err != nil {
				return err
			}
		}
		return e.w.Event("response.output_text.delta", outputTextDelta{
			Type: "response.output_text.delta", OutputIndex: e.outputIndex,
			ItemID: e.messageItemID, Delta: c.Content,
		})
	}
	return nil
}

func (e *responsesEmitter) openMessageItem() error {
	e.messageItemID = newItemID("msg_")
	e.messageItemEmitted = true
	if err := e.w.Event("response.output_item.added", outputItemAdded{
		Type: "response.output_item.added", OutputIndex: e.outputIndex,
		Item: responsesItemStub{Type: "message", ID: e.messageItemID, Status: "in_progress", Role: "assistant"},
	}); err != nil {
		return err
	}
	return e.w.Event("response.content_part.added", contentPartAdded{
		Type: "response.content_part.added", OutputIndex: e.outputIndex,
		ItemID: e.messageItemID, Part: responsesPart{Type: "output_text"},
	})
}

func (e *responsesEmitter) closeMessageItem() error {
	if !e.messageItemEmitted {
		return nil
	}
	text := e.acc.Text
	if err := e.w.Event("response.output_text.done", outputTextDone{
		Type: "response.output_text.done", OutputIndex: e.outputIndex,
		ItemID: e.messageItemID, Text: text,
	}); err != nil {
		return err
	}
	if err := e.w.Event("response.content_part.done", contentPartDone{
		Type: "response.content_part.done", OutputIndex: e.outputIndex,
		ItemID: e.messageItemID, Part: responsesPart{Type: "output_text", Text: text},
	}); err != nil {
		return err
	}
	if err := e.w.Event("response.output_item.done", outputItemDone{
		Type: "response.output_item.done", OutputIndex: e.outputIndex,
		Item: responsesItemStub{Type: "message", ID: e.messageItemID, Status: "completed", Role: "assistant"},
	}); err != nil {
		return err
	}
	e.messageItemEmitted = false
	e.outputIndex++
	return nil
}

func (e *responsesEmitter) openToolItem(tc ir.ToolCallDelta) error {
	e.toolItemID = newItemID("fc_")
	e.toolOpen = true
	return e.w.Event("response.output_item.added", outputItemAdded{
		Type: "response.output_item.added", OutputIndex: e.outputIndex,
		Item: responsesItemStub{Type: "function_call", ID: e.toolItemID, Status: "in_progress", CallID: tc.ID, Name: tc.Name},
	})
}

func (e *responsesEmitter) closeToolItem(tc ir.ToolCallDelta) error {
	if !e.toolOpen {
		return nil
	}
	if err := e.w.Event("response.function_call_arguments.done", functionCallArgsDone{
		Type: "response.function_call_arguments.done", OutputIndex: e.outputIndex,
		ItemID: e.toolItemID, Arguments: tc.ArgumentsDelta,
	}); err != nil {
		return err
	}
	if err := e.w.Event("response.output_item.done", outputItemDone{
		Type: "response.output_item.done", OutputIndex: e.outputIndex,
		Item: responsesItemStub{Type: "function_call", ID: e.toolItemID, Status: "completed", CallID: tc.ID, Name: tc.Name, Arguments: tc.ArgumentsDelta},
	}); err != nil {
		return err
	}
	e.toolOpen = false
	e.outputIndex++
	return nil
}

func (e *responsesEmitter) finish() error {
	if err := e.closeMessageItem(); err != nil {
		return err
	}
	resp, err := responses.FromAccumulator(e.id, e.model, e.acc)
	if err != nil {
		return err
	}
	resp.Status = "completed"
	return e.w.Event("response.completed", responseCompleted{Type: "response.completed", Response: resp})
}
