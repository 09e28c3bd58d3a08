package server

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/samkirk/gca-bridge/internal/fallback"
	"github.com/samkirk/gca-bridge/internal/ir"
)

// stream runs req through the fallback controller around the Gemini
// client, wrapping the resulting chunk channel with the local
// usage-estimation fallback. It returns the model that actually served
// the request — req.Model as left by fallback.WrapStreaming, which
// differs from upstreamModel when a rate limit triggered a fallback
// retry — so callers echo the true serving model back to the client.
func (h *handlers) stream(c *gin.Context, req *ir.CanonicalRequest, upstreamModel string) (<-chan ir.Chunk, string, error) {
	chatID := newChatID()
	ch, err := fallback.WrapStreaming(c.Request.Context(), h.deps.Fallback, upstreamModel, req,
		func(ctx context.Context, model string, r *ir.CanonicalRequest) (<-chan ir.Chunk, error) {
			return h.deps.Client.Stream(ctx, r, chatID)
		})
	if err != nil {
		return nil, "", err
	}
	servedModel := req.Model
	return withUsageFallback(servedModel, req, ch), servedModel, nil
}

// startSSE sets the response headers for a text/event-stream body and
// flushes them immediately so the client sees the stream open even before
// the first event is written.
func (h *handlers) startSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()
}
