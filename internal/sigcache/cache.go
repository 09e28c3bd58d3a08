// Package sigcache holds the process-wide model-family-keyed
// thought-signature cache (spec §3), rejecting signatures shorter than
// 100 characters.
package sigcache

import "sync"

// MinSignatureLength is the rejection threshold from spec §3.
const MinSignatureLength = 100

// Cache is the process-wide signature store. Mutated by the Gemini
// streaming client and read by the Anthropic SSE re-emitter; reads and
// writes are serialized per spec §5's shared-resource policy.
type Cache struct {
	mu       sync.RWMutex
	byFamily map[string]string
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{
		byFamily: make(map[string]string),
	}
}

// PutFamily inserts a signature for a model family, rejecting it silently
// if it's too short. Insertion is idempotent: the most recent valid
// signature always wins, matching the client's "re-attach on subsequent
// turns" use.
func (c *Cache) PutFamily(family, signature string) {
	if len(signature) < MinSignatureLength {
		return
	}
	c.mu.Lock()
	c.byFamily[family] = signature
	c.mu.Unlock()
}

// Family looks up the cached signature for a model family.
func (c *Cache) Family(family string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byFamily[family]
	return s, ok
}

// Clear empties the cache — for tests only.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byFamily = make(map[string]string)
}
