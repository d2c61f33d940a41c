package module

import (
	"context"
	"sync"

	"github.com/wippyai/chunk-runtime/future"
)

// State is the lifecycle position of a module record.
type State uint8

const (
	StateInstantiating State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "instantiating"
	}
}

// Module is the record of one instantiated module.
//
// Records are created by Cache.Reserve and populated by the runtime. The
// mutators are not meant for factories.
type Module struct {
	exports   any
	namespace *Exports
	err       error
	async     *future.Future[struct{}]
	id        string
	mu        sync.RWMutex
	loaded    bool
}

func newModule(id string) *Module {
	return &Module{id: id, exports: NewExports()}
}

// ID returns the module id.
func (m *Module) ID() string { return m.id }

// Exports returns the current exports value. It is an *Exports unless the
// factory replaced it with ExportValue.
func (m *Module) Exports() any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exports
}

// Namespace returns the ES namespace object, or nil.
func (m *Module) Namespace() *Exports {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.namespace
}

// Loaded reports whether the factory completed successfully.
func (m *Module) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Err returns the error recorded when the factory failed.
func (m *Module) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// State returns the lifecycle state.
func (m *Module) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case m.err != nil:
		return StateFailed
	case m.loaded:
		return StateLoaded
	default:
		return StateInstantiating
	}
}

// SetExports replaces the exports value.
func (m *Module) SetExports(v any) {
	m.mu.Lock()
	m.exports = v
	m.mu.Unlock()
}

// SetNamespace sets the ES namespace object.
func (m *Module) SetNamespace(ns *Exports) {
	m.mu.Lock()
	m.namespace = ns
	m.mu.Unlock()
}

// MarkLoaded records successful completion.
func (m *Module) MarkLoaded() {
	m.mu.Lock()
	m.loaded = true
	m.mu.Unlock()
}

// Fail records the factory error. The record stays unloaded.
func (m *Module) Fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// SetAsync attaches the completion of an async module body.
func (m *Module) SetAsync(f *future.Future[struct{}]) {
	m.mu.Lock()
	m.async = f
	m.mu.Unlock()
}

// Async reports whether the module body is asynchronous.
func (m *Module) Async() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.async != nil
}

// Wait blocks until an async module body settles. Synchronous modules
// return immediately.
func (m *Module) Wait(ctx context.Context) error {
	m.mu.RLock()
	f := m.async
	m.mu.RUnlock()

	if f == nil {
		return nil
	}
	_, err := f.Wait(ctx)
	return err
}
