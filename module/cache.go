package module

import (
	"sort"
	"sync"
)

// Cache holds instantiated module records keyed by module id.
type Cache struct {
	modules map[string]*Module
	mu      sync.RWMutex
}

// NewCache creates an empty module cache.
func NewCache() *Cache {
	return &Cache{modules: make(map[string]*Module)}
}

// Get returns the record for id.
func (c *Cache) Get(id string) (*Module, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.modules[id]
	return m, ok
}

// Reserve publishes a fresh placeholder record for id unless one exists.
// It returns the record now stored under id and whether it was created.
func (c *Cache) Reserve(id string) (*Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.modules[id]; ok {
		return m, false
	}
	m := newModule(id)
	c.modules[id] = m
	return m, true
}

// Evict removes the record for id so the next request instantiates it again.
// Used by HMR collaborators.
func (c *Cache) Evict(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.modules[id]; !ok {
		return false
	}
	delete(c.modules, id)
	return true
}

// Len returns the number of records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.modules)
}

// IDs returns all cached module ids, sorted.
func (c *Cache) IDs() []string {
	c.mu.RLock()
	ids := make([]string, 0, len(c.modules))
	for id := range c.modules {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	sort.Strings(ids)
	return ids
}
