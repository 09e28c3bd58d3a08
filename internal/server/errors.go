package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samkirk/gca-bridge/internal/apierr"
	"github.com/samkirk/gca-bridge/internal/translator/anthropic"
)

// formatRateLimitMessage builds spec §8 S3's literal reset message. When
// the upstream gave no parseable reset hint, rl.Message (the raw upstream
// body) is forwarded instead of a fabricated estimate.
func formatRateLimitMessage(rl apierr.RateLimit) string {
	if rl.ResetAfterMS <= 0 {
		return fmt.Sprintf("RESOURCE_EXHAUSTED: Rate limited on %s. %s", rl.Model, rl.Message)
	}
	seconds := rl.ResetAfterMS / 1000
	nextAvailable := time.Now().Add(time.Duration(rl.ResetAfterMS) * time.Millisecond).Format(time.RFC3339)
	return fmt.Sprintf("RESOURCE_EXHAUSTED: Rate limited on %s. Quota will reset after %d second(s). Next available: %s",
		rl.Model, seconds, nextAvailable)
}

// writeAnthropicError maps a core error to spec §7's Anthropic-dialect
// surface: InvalidRequest and RateLimit both render as HTTP 400 so a
// naively-retrying Anthropic client doesn't loop forever on a 429.
func writeAnthropicError(c *gin.Context, err error) {
	var inv apierr.InvalidRequest
	if errors.As(err, &inv) {
		c.JSON(http.StatusBadRequest, anthropic.NewInvalidRequestError(inv.Message))
		return
	}
	var rl apierr.RateLimit
	if errors.As(err, &rl) {
		c.JSON(http.StatusBadRequest, anthropic.NewInvalidRequestError(formatRateLimitMessage(rl)))
		return
	}
	var up apierr.Upstream
	if errors.As(err, &up) {
		c.JSON(http.StatusInternalServerError, anthropic.ErrorBody{
			Type:  "error",
			Error: anthropic.ErrorDetail{Type: "api_error", Message: up.Body},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, anthropic.ErrorBody{
		Type:  "error",
		Error: anthropic.ErrorDetail{Type: "api_error", Message: err.Error()},
	})
}

// openAIErrorBody is the minimal `{"error": "<message>"}` envelope spec §7
// names for the OpenAI dialect surfaces (chat completions and responses
// share it — neither wire format defines a richer error object here).
type openAIErrorBody struct {
	Error string `json:"error"`
}

// writeOpenAIError maps a core error to spec §7's OpenAI-dialect surface:
// InvalidRequest is the client's own fault (400); RateLimit and Upstream
// are both upstream failures the client can't fix by retrying as-is (500).
func writeOpenAIError(c *gin.Context, err error) {
	var inv apierr.InvalidRequest
	if errors.As(err, &inv) {
		c.JSON(http.StatusBadRequest, openAIErrorBody{Error: inv.Message})
		return
	}
	var rl apierr.RateLimit
	if errors.As(err, &rl) {
		c.JSON(http.StatusInternalServerError, openAIErrorBody{Error: formatRateLimitMessage(rl)})
		return
	}
	var up apierr.Upstream
	if errors.As(err, &up) {
		c.JSON(http.StatusInternalServerError, openAIErrorBody{Error: up.Body})
		return
	}
	c.JSON(http.StatusInternalServerError, openAIErrorBody{Error: err.Error()})
}
