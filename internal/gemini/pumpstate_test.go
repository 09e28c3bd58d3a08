package gemini

import (
	"testing"

	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/sigcache"
)

func drain(out chan ir.Chunk) []ir.Chunk {
	var chunks []ir.Chunk
	for c := range out {
		chunks = append(chunks, c)
	}
	return chunks
}

func TestPumpStateEmitFinalOnlyOnce(t *testing.T) {
	out := make(chan ir.Chunk, 8)
	s := &pumpState{model: "gemini-2.5-pro", family: "gemini"}
	s.emitFinal(out, "", nil)
	s.emitFinal(out, "", nil)
	close(out)

	chunks := drain(out)
	if len(chunks) != 1 {
		t.Fatalf("expected exactly one terminal chunk, got %d: %+v", len(chunks), chunks)
	}
	if chunks[0].FinishReason != ir.FinishStop {
		t.Fatalf("expected stop, got %+v", chunks[0])
	}
}

func TestPumpStateToolCallsForceToolCallsFinish(t *testing.T) {
	out := make(chan ir.Chunk, 8)
	sig := sigcache.New()
	s := &pumpState{model: "gemini-2.5-pro", family: "gemini"}
	s.emitPart(sig, wirePart{FunctionCall: &wireFunctionCall{Name: "f", Args: map[string]any{}}}, out)
	s.emitFinal(out, "STOP", nil)
	close(out)

	chunks := drain(out)
	if len(chunks) != 2 {
		t.Fatalf("expected tool-call chunk + final, got %d: %+v", len(chunks), chunks)
	}
	if chunks[1].FinishReason != ir.FinishToolCalls {
		t.Fatalf("expected tool_calls to override a STOP wire reason, got %+v", chunks[1])
	}
}

func TestPumpStateErrorChunkSkipsFinishReason(t *testing.T) {
	out := make(chan ir.Chunk, 1)
	s := &pumpState{}
	s.emitFinal(out, "", errBoom{})
	close(out)

	chunks := drain(out)
	if len(chunks) != 1 || chunks[0].Err == nil {
		t.Fatalf("expected one error chunk, got %+v", chunks)
	}
}

func TestPumpStateMapsMaxTokensToLength(t *testing.T) {
	out := make(chan ir.Chunk, 1)
	s := &pumpState{}
	s.emitFinal(out, "MAX_TOKENS", nil)
	close(out)

	chunks := drain(out)
	if chunks[0].FinishReason != ir.FinishLength {
		t.Fatalf("expected length, got %+v", chunks[0])
	}
}

func TestPumpStateMapsSafetyAndRecitationToContentFilter(t *testing.T) {
	for _, raw := range []string{"SAFETY", "RECITATION", "OTHER"} {
		out := make(chan ir.Chunk, 1)
		s := &pumpState{}
		s.emitFinal(out, raw, nil)
		close(out)

		chunks := drain(out)
		if chunks[0].FinishReason != ir.FinishContentFilter {
			t.Fatalf("%s: expected content_filter, got %+v", raw, chunks[0])
		}
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
