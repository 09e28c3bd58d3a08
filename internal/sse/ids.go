package sse

import (
	"crypto/rand"
	"encoding/hex"
)

// newToolUseID mints a fresh Anthropic tool_use block id: "toolu_" plus
// 12 random bytes hex-encoded, per spec §4.6 rule 5.
func newToolUseID() string {
	return newID("toolu_", 12)
}

// newItemID mints a Responses-API output-item id with the given prefix
// ("msg_", "fc_").
func newItemID(prefix string) string {
	return newID(prefix, 12)
}

func newID(prefix string, n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return prefix + hex.EncodeToString(b)
}
