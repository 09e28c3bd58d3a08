package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/samkirk/gca-bridge/internal/fallback"
	"github.com/samkirk/gca-bridge/internal/gemini"
	"github.com/samkirk/gca-bridge/internal/registry"
	"github.com/samkirk/gca-bridge/internal/sigcache"
)

type fakeAuth struct{}

func (fakeAuth) AccessToken() (string, error) { return "tok", nil }
func (fakeAuth) InvalidateToken()             {}
func (fakeAuth) ProjectHint() string          { return "" }

func sseBody(records ...string) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString("data: ")
		b.WriteString(r)
		b.WriteString("\n\n")
	}
	return b.String()
}

// newTestEngine builds a full server.New() engine against an upstream
// fake that always returns the given canned SSE body, mirroring
// internal/gemini's own httptest fixture pattern.
func newTestEngine(t *testing.T, upstreamBody string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, upstreamBody)
	}))
	t.Cleanup(upstream.Close)

	client := gemini.NewClient(fakeAuth{}, "inst-test", sigcache.New(),
		gemini.WithBaseURL(upstream.URL),
		gemini.WithHTTPClient(upstream.Client()),
		gemini.WithProjectID("proj-1"),
	)

	return New(Deps{
		Client:   client,
		Resolver: registry.NewResolver(),
		Fallback: fallback.NewController(registry.NewFallbackTable(nil), registry.NewCooldownTracker()),
		Cooldown: registry.NewCooldownTracker(),
		SigCache: sigcache.New(),
	})
}

func TestChatCompletionsNonStreaming(t *testing.T) {
	body := sseBody(
		`{"response":{"candidates":[{"content":{"parts":[{"text":"Hi "}]}}]}}`,
		`{"response":{"candidates":[{"content":{"parts":[{"text":"there"}],"finishReason":"STOP"}}],"usageMetadata":{"promptTokenCount":1,"candidatesTokenCount":2,"totalTokenCount":3}}}`,
	)
	engine := newTestEngine(t, body)

	reqBody := `{"model":"gemini-2.5-flash","messages":[{"role":"user","content":"Hello"}]}`
	req := httptest.NewRequest(http.MethodPost, "/openai/v1/chat/completions", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	choices := got["choices"].([]any)
	msg := choices[0].(map[string]any)["message"].(map[string]any)
	if msg["content"] != "Hi there" {
		t.Fatalf("expected assembled content, got %+v", msg)
	}
}

func TestChatCompletionsStreaming(t *testing.T) {
	body := sseBody(
		`{"response":{"candidates":[{"content":{"parts":[{"text":"Hi"}],"finishReason":"STOP"}}]}}`,
	)
	engine := newTestEngine(t, body)

	reqBody := `{"model":"gemini-2.5-flash","stream":true,"messages":[{"role":"user","content":"Hello"}]}`
	req := httptest.NewRequest(http.MethodPost, "/openai/v1/chat/completions", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "data: [DONE]") {
		t.Fatalf("expected a terminal [DONE] frame, got %s", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("expected SSE content type, got %q", rec.Header().Get("Content-Type"))
	}
}

func TestMessagesMissingMaxTokensIsInvalidRequest(t *testing.T) {
	engine := newTestEngine(t, "")

	reqBody := `{"model":"gemini-2.5-flash","messages":[{"role":"user","content":"Hello"}]}`
	req := httptest.NewRequest(http.MethodPost, "/anthropic/v1/messages", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	errObj := got["error"].(map[string]any)
	if errObj["message"] != "max_tokens is required" {
		t.Fatalf("unexpected error body: %+v", got)
	}
}

func TestListModelsEndpoints(t *testing.T) {
	engine := newTestEngine(t, "")

	for _, path := range []string{"/openai/v1/models", "/anthropic/v1/models"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestStatusEndpointListsEveryCanonicalModel(t *testing.T) {
	engine := newTestEngine(t, "")

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got struct {
		Models []statusRow `json:"models"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(got.Models) != len(registry.ListCanonicalModels()) {
		t.Fatalf("expected %d models, got %d", len(registry.ListCanonicalModels()), len(got.Models))
	}
}
