package server

import (
	"strings"

	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/util"
)

// withUsageFallback re-emits chunks unchanged, except that if the stream's
// terminal chunk carries no Usage (some upstream responses omit
// usageMetadata on an error-adjacent finish), it fills one in via local
// token estimation before forwarding, per SPEC_FULL's usage-estimation
// fallback.
func withUsageFallback(model string, req *ir.CanonicalRequest, in <-chan ir.Chunk) <-chan ir.Chunk {
	out := make(chan ir.Chunk)
	go func() {
		defer close(out)
		var text strings.Builder
		for c := range in {
			if c.Content != "" && !c.Thought {
				text.WriteString(c.Content)
			}
			if c.IsTerminal() && c.Err == nil && c.Usage == nil {
				estimated := util.EstimateUsage(model, req, text.String())
				c.Usage = &estimated
			}
			out <- c
		}
	}()
	return out
}
