package transform

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// KeyAllocator derives unique _key values from content hashes. Keys are
// the first 8 hex characters of the content's SHA-1; when two distinct
// contents collide on that prefix, later ones get a monotonically
// increasing tie-breaker suffix, in first-seen order. Uniqueness holds
// for exactly one run: construct one allocator per run and discard it.
type KeyAllocator struct {
	seen map[string]bool
	tie  int
}

func NewKeyAllocator() *KeyAllocator {
	return &KeyAllocator{seen: map[string]bool{}, tie: 1}
}

// Key returns the unique key for content.
func (a *KeyAllocator) Key(content []byte) string {
	sum := sha1.Sum(content)
	key := hex.EncodeToString(sum[:])[:8]
	for a.seen[key] {
		key = key[:8] + strconv.Itoa(a.tie)
		a.tie++
	}
	a.seen[key] = true
	return key
}
