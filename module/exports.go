package module

import "sync"

// Exports is the mutable exports object of a module.
//
// The same *Exports is handed to every module that requires its owner, so
// properties added after a dependent captured it are still observed.
type Exports struct {
	props    map[string]property
	keys     []string
	mu       sync.RWMutex
	esModule bool
}

type property struct {
	value  any
	getter func() any
}

// NewExports creates an empty exports object.
func NewExports() *Exports {
	return &Exports{props: make(map[string]property)}
}

// Set assigns a plain value. Set overwrites an existing property.
func (e *Exports) Set(name string, v any) {
	e.put(name, property{value: v})
}

// Define installs a getter evaluated on every read.
func (e *Exports) Define(name string, getter func() any) {
	e.put(name, property{getter: getter})
}

func (e *Exports) put(name string, p property) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.props[name]; !ok {
		e.keys = append(e.keys, name)
	}
	e.props[name] = p
}

// Get returns the current value of a property.
func (e *Exports) Get(name string) (any, bool) {
	e.mu.RLock()
	p, ok := e.props[name]
	e.mu.RUnlock()

	if !ok {
		return nil, false
	}
	// getters may read other exports objects; call them unlocked
	if p.getter != nil {
		return p.getter(), true
	}
	return p.value, true
}

// Has reports whether a property exists.
func (e *Exports) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.props[name]
	return ok
}

// Keys returns property names in definition order.
func (e *Exports) Keys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make([]string, len(e.keys))
	copy(keys, e.keys)
	return keys
}

// Len returns the number of properties.
func (e *Exports) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.keys)
}

// ESModule reports whether the object was marked as an ES module namespace.
func (e *Exports) ESModule() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.esModule
}

// MarkESModule flags the object as an ES module namespace.
func (e *Exports) MarkESModule() {
	e.mu.Lock()
	e.esModule = true
	e.mu.Unlock()
}

// Snapshot evaluates every property into a plain map.
func (e *Exports) Snapshot() map[string]any {
	keys := e.Keys()
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		v, _ := e.Get(k)
		out[k] = v
	}
	return out
}
