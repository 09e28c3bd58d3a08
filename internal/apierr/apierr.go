// Package apierr defines the typed error taxonomy of spec.md §7, shared
// by the request mappers, the Gemini streaming client, and the fallback
// controller. Each concrete type satisfies StatusError so the HTTP layer
// can pick a status code without type-switching on error strings.
package apierr

import "fmt"

// StatusError is any error that knows the HTTP status it should surface
// as, in the teacher's notImplementedError idiom.
type StatusError interface {
	error
	StatusCode() int
}

// InvalidRequest is a client dialect-validation failure: missing
// `messages`, missing Anthropic `max_tokens`, malformed JSON.
type InvalidRequest struct{ Message string }

func (e InvalidRequest) Error() string   { return e.Message }
func (e InvalidRequest) StatusCode() int { return 400 }

// RateLimit is a typed upstream 429. ResetAfterMS is 0 when no reset hint
// could be parsed from the response.
type RateLimit struct {
	Model        string
	StatusCode_  int
	ResetAfterMS int64
	Message      string
}

func (e RateLimit) Error() string { return e.Message }

// StatusCode is fixed at 429 regardless of the upstream's status, since
// callers switch on this to decide retry/fallback behavior; the HTTP
// surface status per dialect is decided separately (§7: 400 on Anthropic,
// 500 on OpenAI).
func (e RateLimit) StatusCode() int { return 429 }

// Upstream is any other non-429 upstream failure.
type Upstream struct {
	StatusCode_ int
	Body        string
}

func (e Upstream) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode_, e.Body)
}
func (e Upstream) StatusCode() int { return e.StatusCode_ }

// StreamAborted marks an error that occurred after downstream SSE headers
// were already flushed; the caller must emit a dialect error event and
// close the connection rather than change the HTTP status.
type StreamAborted struct{ Cause error }

func (e StreamAborted) Error() string { return "stream aborted: " + e.Cause.Error() }
func (e StreamAborted) Unwrap() error { return e.Cause }
