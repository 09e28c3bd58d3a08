package registry

import (
	"math/rand"
	"sort"
)

// FamilyMember is one upstream-surface-specific variant of a canonical
// model id. This proxy targets a single upstream surface (Gemini Code
// Assist) so every family currently has exactly one member, but the
// priority-then-random selection is carried from the teacher's
// multi-surface router in case a second surface (e.g. direct AI Studio)
// is wired in later.
type FamilyMember struct {
	Surface  string
	ModelID  string
	Priority int
}

// families maps a canonical id to its surface-specific variants.
var families = map[string][]FamilyMember{
	"gemini-2.5-pro":                {{Surface: "code-assist", ModelID: "gemini-2.5-pro", Priority: 1}},
	"gemini-2.5-flash":              {{Surface: "code-assist", ModelID: "gemini-2.5-flash", Priority: 1}},
	"gemini-2.5-flash-lite":         {{Surface: "code-assist", ModelID: "gemini-2.5-flash-lite", Priority: 1}},
	"gemini-2.5-flash-lite-preview": {{Surface: "code-assist", ModelID: "gemini-2.5-flash-lite-preview", Priority: 1}},
	"gemini-3-pro-preview":          {{Surface: "code-assist", ModelID: "gemini-3-pro-preview", Priority: 1}},
	"gemini-3-flash-preview":        {{Surface: "code-assist", ModelID: "gemini-3-flash-preview", Priority: 1}},
}

// ResolveFamily selects a surface-specific model id for a canonical id,
// preferring the lowest Priority number and breaking ties randomly among
// the surfaces present in availableSurfaces.
func ResolveFamily(canonicalID string, availableSurfaces []string) (surface, modelID string, found bool) {
	members, ok := families[canonicalID]
	if !ok {
		return "", canonicalID, false
	}

	available := make(map[string]bool, len(availableSurfaces))
	for _, s := range availableSurfaces {
		available[s] = true
	}

	byPriority := map[int][]FamilyMember{}
	for _, m := range members {
		if available[m.Surface] {
			byPriority[m.Priority] = append(byPriority[m.Priority], m)
		}
	}
	if len(byPriority) == 0 {
		return "", canonicalID, false
	}

	priorities := make([]int, 0, len(byPriority))
	for p := range byPriority {
		priorities = append(priorities, p)
	}
	sort.Ints(priorities)

	top := byPriority[priorities[0]]
	selected := top[0]
	if len(top) > 1 {
		selected = top[rand.Intn(len(top))]
	}
	return selected.Surface, selected.ModelID, true
}

// ListCanonicalModels returns every canonical id this proxy knows about,
// used by the GET /models endpoints.
func ListCanonicalModels() []string {
	out := make([]string, 0, len(families))
	for id := range families {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
