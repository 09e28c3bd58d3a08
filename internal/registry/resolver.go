// Package registry resolves client-supplied model names to canonical
// Gemini model ids (spec §4.2), and tracks per-model fallback and cooldown
// state (spec §3, §4.5).
package registry

import (
	"regexp"
	"strings"
	"sync/atomic"
)

// DefaultModel is returned whenever the request carries no usable model
// hint.
const DefaultModel = "gemini-2.5-pro"

// aliasTable maps a known alias to its canonical Gemini model id. Loaded
// at startup from the static defaults below, overridable via
// internal/config's hujson alias file. Held behind an atomic.Pointer so
// SetAliasTable can hot-swap it without locking Resolve's read path.
var aliasTable atomic.Pointer[map[string]string]

func init() {
	t := map[string]string{
		"gemini-3-pro-high":     "gemini-3-pro-preview",
		"gemini-3":              "gemini-3-flash-preview",
		"gemini-2.5-flash-lite": "gemini-2.5-flash-lite-preview",
	}
	aliasTable.Store(&t)
}

// canonicalIDs is the set of ids that pass through Resolve unchanged
// because they are already canonical.
var canonicalIDs = map[string]bool{
	"gemini-3-pro-preview":          true,
	"gemini-3-flash-preview":        true,
	"gemini-2.5-pro":                true,
	"gemini-2.5-flash":              true,
	"gemini-2.5-flash-lite":         true,
	"gemini-2.5-flash-lite-preview": true,
}

var budgetSuffix = regexp.MustCompile(`\[\d+m\]$`)

// Resolver resolves model names and exposes the live alias table. It is
// safe for concurrent use: SetAliasTable is the only mutator and is
// intended to be called from the config hot-reload watcher.
type Resolver struct{}

// NewResolver returns a Resolver over the process-wide alias table.
func NewResolver() *Resolver { return &Resolver{} }

// Resolve implements spec §4.2's five-step procedure.
func (r *Resolver) Resolve(name *string) string {
	if name == nil || strings.TrimSpace(*name) == "" {
		return DefaultModel
	}
	stripped := budgetSuffix.ReplaceAllString(*name, "")

	if canonical, ok := (*aliasTable.Load())[stripped]; ok {
		return canonical
	}
	if canonicalIDs[stripped] {
		return stripped
	}
	if strings.HasPrefix(stripped, "gemini-") {
		return stripped
	}
	return DefaultModel
}

// ThinkingBudgetSuffix parses the trailing "[<digits>m]" hint, if present,
// returning the integer and whether it was found.
func ThinkingBudgetSuffix(name string) (int, bool) {
	loc := budgetSuffix.FindStringIndex(name)
	if loc == nil {
		return 0, false
	}
	digits := name[loc[0]+1 : loc[1]-2]
	n := 0
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// SetAliasTable replaces the alias table wholesale — used by the config
// hot-reload watcher. Existing in-flight Resolve calls are unaffected
// because the swap is a single atomic pointer store.
func SetAliasTable(next map[string]string) {
	aliasTable.Store(&next)
}
