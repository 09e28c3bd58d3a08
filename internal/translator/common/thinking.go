// Package common holds request-shaping steps shared by all three dialect
// mappers, applied after the dialect-specific translation and before the
// canonical request is handed to the Gemini streaming client.
package common

import (
	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/util"
)

// ApplyReasoningEffort implements spec §4.3's reasoning_effort /
// reasoning.effort mapping to a fixed thinkingConfig. A no-op if effort
// doesn't match one of the three known tiers.
func ApplyReasoningEffort(req *ir.CanonicalRequest, effort string) {
	budget, ok := util.ThinkingBudgetForEffort(effort)
	if !ok {
		return
	}
	if req.GenerationConfig == nil {
		req.GenerationConfig = &ir.GenerationConfig{}
	}
	req.GenerationConfig.Thinking = &ir.ThinkingConfig{
		ThinkingBudget:  budget,
		IncludeThoughts: true,
	}
}
