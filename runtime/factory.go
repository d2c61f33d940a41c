package runtime

import (
	"sort"
	"sync"
)

// Factory is the compiled body of a module. It runs at most once per module
// id and publishes exports through c.
type Factory func(c *Context) error

// Entry is one item of a chunk's factory table: a factory for a primary id,
// optionally shared verbatim with alias ids.
type Entry struct {
	Factory Factory
	ID      string
	Aliases []string
}

// Single creates an entry backing exactly one module id.
func Single(id string, f Factory) Entry {
	return Entry{ID: id, Factory: f}
}

// Shared creates an entry whose factory also backs every alias id.
func Shared(id string, f Factory, aliases ...string) Entry {
	return Entry{ID: id, Factory: f, Aliases: aliases}
}

// Shared reports whether the entry carries alias ids.
func (e Entry) Shared() bool {
	return len(e.Aliases) > 0
}

// IDs returns the primary id followed by the aliases.
func (e Entry) IDs() []string {
	ids := make([]string, 0, 1+len(e.Aliases))
	ids = append(ids, e.ID)
	return append(ids, e.Aliases...)
}

// Contents is the factory table exported by a chunk.
type Contents []Entry

// Factories maps module ids to factories. The first registration for an id
// wins; later ones are ignored.
type Factories struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewFactories creates an empty factory table.
func NewFactories() *Factories {
	return &Factories{factories: make(map[string]Factory)}
}

// Register stores f under id unless id already has a factory.
// It reports whether f was stored.
func (t *Factories) Register(id string, f Factory) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.register(id, f)
}

func (t *Factories) register(id string, f Factory) bool {
	if _, ok := t.factories[id]; ok {
		return false
	}
	t.factories[id] = f
	return true
}

// RegisterEntry stores the entry's factory under its primary id and every
// alias in one step. Each id keeps an existing factory. It returns the
// number of ids stored.
func (t *Factories) RegisterEntry(e Entry) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, id := range e.IDs() {
		if t.register(id, e.Factory) {
			n++
		}
	}
	return n
}

// Install registers every entry of a chunk and returns the number of ids
// stored.
func (t *Factories) Install(contents Contents) int {
	n := 0
	for _, e := range contents {
		n += t.RegisterEntry(e)
	}
	return n
}

// Lookup returns the factory for id.
func (t *Factories) Lookup(id string) (Factory, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	f, ok := t.factories[id]
	return f, ok
}

// Remove deletes the factories of ids. Used by HMR collaborators to retire
// stale modules.
func (t *Factories) Remove(ids ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		delete(t.factories, id)
	}
}

// Len returns the number of registered ids.
func (t *Factories) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.factories)
}

// IDs returns every registered id, sorted.
func (t *Factories) IDs() []string {
	t.mu.RLock()
	ids := make([]string, 0, len(t.factories))
	for id := range t.factories {
		ids = append(ids, id)
	}
	t.mu.RUnlock()

	sort.Strings(ids)
	return ids
}
