package sse

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriterDataFrameShape(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Data(map[string]string{"a": "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "data: {\"a\":\"b\"}\n\n" {
		t.Fatalf("got %q", got)
	}
}

func TestWriterEventFrameShape(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Event("message_stop", map[string]string{"type": "message_stop"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "event: message_stop\ndata: ") {
		t.Fatalf("got %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n\n") {
		t.Fatalf("missing trailing blank line: %q", buf.String())
	}
}

func TestWriterDone(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Done(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "data: [DONE]\n\n" {
		t.Fatalf("got %q", got)
	}
}
