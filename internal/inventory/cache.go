package inventory

import (
	"sync"

	"github.com/nirarg/vhd-consolidate/pkg/types"
)

type metaEntry struct {
	meta types.DiskMeta
	err  error
}

// metaCache provides in-memory caching for disk metadata query results.
// Failed queries are cached too, so an unreadable parent referenced by many
// children is only queried once.
type metaCache struct {
	mu    sync.RWMutex
	cache map[string]metaEntry
}

// newMetaCache creates a new in-memory cache
func newMetaCache() *metaCache {
	return &metaCache{
		cache: make(map[string]metaEntry),
	}
}

// get retrieves a cached result; ok is false on a miss
func (c *metaCache) get(path string) (types.DiskMeta, error, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[path]
	return entry.meta, entry.err, ok
}

// set stores a query result, successful or not
func (c *metaCache) set(path string, meta types.DiskMeta, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[path] = metaEntry{meta: meta, err: err}
}
