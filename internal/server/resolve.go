package server

import (
	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/registry"
)

// availableSurfaces is the set of upstream surfaces this proxy can reach.
// Carried as a slice (rather than hard-coding "code-assist" inline at
// every call site) so a second surface only needs to be added here.
var availableSurfaces = []string{"code-assist"}

// resolveModel runs spec §4.2's full resolution pipeline on a
// client-supplied model name: alias/canonical resolution, the optional
// "[<digits>m]" thinking-budget override, and finally the family→surface
// lookup that picks the concrete upstream model id. The returned
// canonical id is what the fallback controller and cooldown tracker key
// on; upstreamModel is what actually gets sent to Code Assist.
func resolveModel(resolver *registry.Resolver, rawModel string, req *ir.CanonicalRequest) (canonical, upstreamModel string) {
	canonical = resolver.Resolve(&rawModel)

	if budget, ok := registry.ThinkingBudgetSuffix(rawModel); ok {
		if req.GenerationConfig == nil {
			req.GenerationConfig = &ir.GenerationConfig{}
		}
		if req.GenerationConfig.Thinking == nil {
			req.GenerationConfig.Thinking = &ir.ThinkingConfig{}
		}
		req.GenerationConfig.Thinking.ThinkingBudget = budget
		req.GenerationConfig.Thinking.IncludeThoughts = true
	}

	if _, modelID, found := registry.ResolveFamily(canonical, availableSurfaces); found {
		upstreamModel = modelID
	} else {
		upstreamModel = canonical
	}
	return canonical, upstreamModel
}
