// Package sse implements spec §4.6's SSE re-emitters: the three
// dialect-specific writers that consume a normalized internal/ir.Chunk
// stream and produce wire-compliant server-sent-event sequences.
package sse

import (
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
)

// Writer serializes SSE frames onto an underlying http.ResponseWriter,
// flushing after every frame so the downstream client sees each event as
// soon as it's produced. Grounded on the teacher pack's gin-handler
// streaming loops, which flush after every forwarded line.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter wraps w. If w also implements http.Flusher (as gin's
// ResponseWriter does), each write is flushed immediately.
func NewWriter(w io.Writer) *Writer {
	f, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: f}
}

// Event writes a named SSE event ("event: <name>\ndata: <json>\n\n"), the
// shape the Anthropic and Responses dialects use.
func (w *Writer) Event(name string, v any) error {
	body, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.w, "event: %s\ndata: %s\n\n", name, body); err != nil {
		return err
	}
	w.flush()
	return nil
}

// Data writes an unnamed "data: <json>\n\n" frame, the shape the OpenAI
// Chat-Completions dialect uses.
func (w *Writer) Data(v any) error {
	body, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.w, "data: %s\n\n", body); err != nil {
		return err
	}
	w.flush()
	return nil
}

// Done writes the OpenAI "[DONE]" sentinel that closes a chat-completion
// stream.
func (w *Writer) Done() error {
	if _, err := io.WriteString(w.w, "data: [DONE]\n\n"); err != nil {
		return err
	}
	w.flush()
	return nil
}

func (w *Writer) flush() {
	if w.flusher != nil {
		w.flusher.Flush()
	}
}
