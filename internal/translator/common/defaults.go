package common

import "github.com/samkirk/gca-bridge/internal/ir"

// EnsureNonEmptyContents guards against Gemini's rejection of a contents
// array with zero turns (e.g. a Claude request consisting only of a system
// prompt) by padding in a minimal user turn.
func EnsureNonEmptyContents(req *ir.CanonicalRequest) {
	if len(req.Contents) > 0 {
		return
	}
	req.Contents = []ir.Content{
		{Role: ir.RoleUser, Parts: []ir.Part{{Kind: ir.PartText, Text: "."}}},
	}
}
