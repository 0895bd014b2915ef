package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
)

// SnapshotCache memoizes computed analytics results keyed by a content hash
// of their input collections. Callers recompute only when the inputs actually
// changed; a re-fetch that returns identical data hits the cache. Entries are
// evicted oldest-first once maxEntries is reached.
type SnapshotCache struct {
	mu         sync.RWMutex
	entries    map[string]any
	order      []string
	maxEntries int
}

// NewSnapshotCache creates a cache holding at most maxEntries results.
func NewSnapshotCache(maxEntries int) *SnapshotCache {
	if maxEntries < 1 {
		maxEntries = 16
	}
	return &SnapshotCache{
		entries:    make(map[string]any, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns the cached result for a snapshot key.
func (c *SnapshotCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put stores a computed result under a snapshot key.
func (c *SnapshotCache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.maxEntries {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = value
}

// SnapshotKey hashes the input collections into a stable cache key. Inputs
// must be slices or structs (deterministic JSON encoding); two snapshots with
// equal content always produce the same key.
func SnapshotKey(scope string, parts ...any) string {
	h := sha256.New()
	h.Write([]byte(scope))
	enc := json.NewEncoder(h)
	for _, p := range parts {
		// Encoding failures cannot happen for the plain data structs this
		// package operates on; ignore to keep the key derivation total.
		_ = enc.Encode(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
