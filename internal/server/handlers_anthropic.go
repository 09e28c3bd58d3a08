package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samkirk/gca-bridge/internal/apierr"
	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/sse"
	"github.com/samkirk/gca-bridge/internal/translator/anthropic"
)

// messages implements POST /anthropic/v1/messages.
func (h *handlers) messages(c *gin.Context) {
	var req anthropic.MessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeAnthropicError(c, apierr.InvalidRequest{Message: err.Error()})
		return
	}

	canonical, err := anthropic.ToCanonical(&req)
	if err != nil {
		writeAnthropicError(c, err)
		return
	}

	_, upstreamModel := resolveModel(h.deps.Resolver, req.Model, canonical)
	id := newMessageID()

	chunks, servedModel, err := h.stream(c, canonical, upstreamModel)
	if err != nil {
		writeAnthropicError(c, err)
		return
	}

	if !req.Stream {
		acc := ir.NewAccumulator()
		for ch := range chunks {
			if ch.Err != nil {
				writeAnthropicError(c, ch.Err)
				return
			}
			acc.Add(ch)
		}
		resp, err := anthropic.FromAccumulator(id, servedModel, acc)
		if err != nil {
			writeAnthropicError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	h.startSSE(c)
	_ = sse.EmitMessages(sse.NewWriter(c.Writer), h.deps.SigCache, id, servedModel, chunks)
}

// listModelsAnthropic implements GET /anthropic/v1/models, rendered in
// the Anthropic SDK's own list envelope rather than OpenAI's.
func (h *handlers) listModelsAnthropic(c *gin.Context) {
	c.JSON(http.StatusOK, anthropicModelsList())
}
