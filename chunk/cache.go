package chunk

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/wippyai/chunk-runtime/future"
)

// Result is the deferred outcome of an asynchronous chunk load.
type Result = future.Future[struct{}]

// Cache memoizes asynchronous chunk loads per path, failures included.
type Cache struct {
	entries map[string]*Result
	group   singleflight.Group
	mu      sync.RWMutex
}

// NewCache creates an empty chunk load cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Result)}
}

// Load returns the memoized result for chunkPath, running load on the first
// request. Concurrent first requests share a single call to load. A failed
// load is cached like a successful one.
func (c *Cache) Load(chunkPath string, load func() error) *Result {
	if r, ok := c.Get(chunkPath); ok {
		return r
	}

	v, _, _ := c.group.Do(chunkPath, func() (any, error) {
		if r, ok := c.Get(chunkPath); ok {
			return r, nil
		}

		var r *Result
		if err := load(); err != nil {
			r = future.Rejected[struct{}](err)
		} else {
			r = future.Resolved(struct{}{})
		}

		c.mu.Lock()
		c.entries[chunkPath] = r
		c.mu.Unlock()
		return r, nil
	})
	return v.(*Result)
}

// Get returns the cached result for chunkPath.
func (c *Cache) Get(chunkPath string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[chunkPath]
	return r, ok
}

// Clear forgets every cached result, failures included.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Result)
	c.mu.Unlock()
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
