// cache.go keeps rendered section documents in memory. Entries are keyed by
// record id plus a fingerprint of the record and render options, so any
// edit produces a cache miss without explicit invalidation.

package engine

import (
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"sync"

	"lpmanager/internal/models"
)

// maxCacheEntries bounds memory use; the cache is cleared when it is full.
const maxCacheEntries = 512

type cacheKey struct {
	id          string
	fingerprint uint64
}

// renderCache is a concurrency-safe map of rendered documents.
type renderCache struct {
	mu      sync.RWMutex
	entries map[cacheKey][]byte
}

func newRenderCache() *renderCache {
	return &renderCache{entries: make(map[cacheKey][]byte)}
}

// keyFor fingerprints the record and options. ok is false when the record
// cannot be fingerprinted, in which case it is rendered uncached.
func keyFor(rec *models.TemplateRecord, opts Options) (cacheKey, bool) {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	if err := enc.Encode(rec); err != nil {
		return cacheKey{}, false
	}
	if err := enc.Encode(opts); err != nil {
		return cacheKey{}, false
	}
	return cacheKey{id: rec.ID, fingerprint: h.Sum64()}, true
}

func (c *renderCache) get(k cacheKey) []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[k]
}

func (c *renderCache) put(k cacheKey, doc []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= maxCacheEntries {
		c.entries = make(map[cacheKey][]byte)
		slog.Debug("render cache full, cleared")
	}
	c.entries[k] = doc
}

// invalidate drops every cached document of one record.
func (c *renderCache) invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.id == id {
			delete(c.entries, k)
		}
	}
	slog.Debug("render cache invalidated", "id", id)
}

func (c *renderCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey][]byte)
	slog.Debug("render cache fully cleared")
}

func (c *renderCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
