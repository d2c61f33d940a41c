package runtime

import (
	"context"
	"sync"
	"testing"

	"github.com/wippyai/chunk-runtime/module"
)

// countingSource wraps a Table and counts loads per chunk path.
type countingSource struct {
	table *Table
	calls map[string]int
	fail  map[string]error
	mu    sync.Mutex
}

func newCountingSource(table *Table) *countingSource {
	return &countingSource{
		table: table,
		calls: make(map[string]int),
		fail:  make(map[string]error),
	}
}

func (s *countingSource) Load(ctx context.Context, chunkPath string) (Contents, error) {
	s.mu.Lock()
	s.calls[chunkPath]++
	err := s.fail[chunkPath]
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return s.table.Load(ctx, chunkPath)
}

func (s *countingSource) setFailure(chunkPath string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, chunkPath)
		return
	}
	s.fail[chunkPath] = err
}

func (s *countingSource) count(chunkPath string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[chunkPath]
}

func (s *countingSource) snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.calls))
	for k, v := range s.calls {
		out[k] = v
	}
	return out
}

func newTestRuntime(t *testing.T, source Source) *Runtime {
	t.Helper()
	opts := DefaultOptions()
	opts.Root = t.TempDir()
	opts.Source = source
	rt, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rt
}

// value is a factory exporting a single plain property.
func value(name string, v any) Factory {
	return func(c *Context) error {
		c.Exports().Set(name, v)
		return nil
	}
}

func rtEntry(chunkPath string) module.Provenance {
	return module.RuntimeEntry(chunkPath)
}
