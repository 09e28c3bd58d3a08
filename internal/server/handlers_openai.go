package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samkirk/gca-bridge/internal/apierr"
	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/sse"
	"github.com/samkirk/gca-bridge/internal/translator/openai"
	"github.com/samkirk/gca-bridge/internal/translator/responses"
)

// chatCompletions implements POST /openai/v1/chat/completions.
func (h *handlers) chatCompletions(c *gin.Context) {
	var req openai.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeOpenAIError(c, apierr.InvalidRequest{Message: err.Error()})
		return
	}

	canonical, err := openai.ToCanonical(&req)
	if err != nil {
		writeOpenAIError(c, err)
		return
	}

	_, upstreamModel := resolveModel(h.deps.Resolver, req.Model, canonical)
	created := time.Now().Unix()
	id := newChatCompletionID()

	chunks, servedModel, err := h.stream(c, canonical, upstreamModel)
	if err != nil {
		writeOpenAIError(c, err)
		return
	}

	if !req.Stream {
		resp, err := drainToChatCompletion(id, servedModel, created, chunks)
		if err != nil {
			writeOpenAIError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	h.startSSE(c)
	_ = sse.EmitChatCompletions(sse.NewWriter(c.Writer), id, servedModel, created, chunks)
}

// responses implements POST /openai/v1/responses.
func (h *handlers) responses(c *gin.Context) {
	var req responses.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeOpenAIError(c, apierr.InvalidRequest{Message: err.Error()})
		return
	}

	canonical, err := responses.ToCanonical(&req)
	if err != nil {
		writeOpenAIError(c, err)
		return
	}

	_, upstreamModel := resolveModel(h.deps.Resolver, req.Model, canonical)
	id := newResponseID()

	chunks, servedModel, err := h.stream(c, canonical, upstreamModel)
	if err != nil {
		writeOpenAIError(c, err)
		return
	}

	if !req.Stream {
		acc := ir.NewAccumulator()
		for ch := range chunks {
			if ch.Err != nil {
				writeOpenAIError(c, ch.Err)
				return
			}
			acc.Add(ch)
		}
		resp, err := responses.FromAccumulator(id, servedModel, acc)
		if err != nil {
			writeOpenAIError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	h.startSSE(c)
	_ = sse.EmitResponses(sse.NewWriter(c.Writer), id, servedModel, chunks)
}

// listModelsOpenAI implements GET /openai/v1/models.
func (h *handlers) listModelsOpenAI(c *gin.Context) {
	c.JSON(http.StatusOK, modelsList())
}

func drainToChatCompletion(id, model string, created int64, chunks <-chan ir.Chunk) (*openai.ChatCompletion, error) {
	acc := ir.NewAccumulator()
	for c := range chunks {
		if c.Err != nil {
			return nil, c.Err
		}
		acc.Add(c)
	}
	return openai.FromAccumulator(id, model, created, acc)
}
