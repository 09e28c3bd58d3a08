package server

import (
	"crypto/rand"
	"encoding/hex"
)

// newID mirrors internal/sse's id scheme: a prefix plus n random bytes
// hex-encoded, used for every wire-visible id this package mints
// (chat-completion, message, and response top-level ids).
func newID(prefix string, n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return prefix + hex.EncodeToString(b)
}

func newChatCompletionID() string { return newID("chatcmpl-", 12) }
func newMessageID() string        { return newID("msg_", 12) }
func newResponseID() string       { return newID("resp_", 12) }
func newChatID() string           { return newID("chat_", 12) }
