// Package storage keeps the raw tune corpus: an in-memory cache of
// ABC sources keyed by tune id, a single-file blob format for fast
// cold starts, and a directory scanner that tops the cache up from
// loose .abc files.
package storage

import (
	"sort"
	"sync"
)

// Cache maps tune ids to their raw ABC source.
// Thread-safe for concurrent access.
type Cache struct {
	mu    sync.RWMutex
	tunes map[uint32]string
}

func NewCache() *Cache {
	return &Cache{tunes: make(map[uint32]string)}
}

// Put stores or replaces one tune's source.
func (c *Cache) Put(id uint32, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tunes[id] = content
}

// Get returns one tune's source.
func (c *Cache) Get(id uint32) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.tunes[id]
	return content, ok
}

// Has reports whether the id is cached.
func (c *Cache) Has(id uint32) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tunes[id]
	return ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tunes)
}

// IDs returns the cached ids in ascending order.
func (c *Cache) IDs() []uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]uint32, 0, len(c.tunes))
	for id := range c.tunes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
