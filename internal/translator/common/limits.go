package common

import "github.com/samkirk/gca-bridge/internal/ir"

// defaultMaxOutputTokens is applied when a dialect request omits an explicit
// max-tokens value and the upstream model has no declared limit to clamp
// against (Gemini itself enforces its own per-model ceiling).
const defaultMaxOutputTokens = 8192

// ClampMaxOutputTokens fills in a default when the request left
// MaxOutputTokens unset, and clamps it to limit when limit > 0.
func ClampMaxOutputTokens(req *ir.CanonicalRequest, limit int) {
	if req.GenerationConfig == nil {
		req.GenerationConfig = &ir.GenerationConfig{}
	}
	if req.GenerationConfig.MaxOutputTokens == nil {
		v := defaultMaxOutputTokens
		req.GenerationConfig.MaxOutputTokens = &v
	}
	if limit > 0 && *req.GenerationConfig.MaxOutputTokens > limit {
		v := limit
		req.GenerationConfig.MaxOutputTokens = &v
	}
}
