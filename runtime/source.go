package runtime

import (
	"context"
	"fmt"
	"path/filepath"
	"plugin"
	"sync"

	"github.com/wippyai/chunk-runtime/errors"
)

// Source resolves a chunk path to the factory table it carries.
type Source interface {
	Load(ctx context.Context, chunkPath string) (Contents, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, chunkPath string) (Contents, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context, chunkPath string) (Contents, error) {
	return f(ctx, chunkPath)
}

// Table is an in-process Source. Generated code registers the contents of
// each chunk it embeds.
type Table struct {
	chunks map[string]Contents
	mu     sync.RWMutex
}

// NewTable creates an empty chunk table.
func NewTable() *Table {
	return &Table{chunks: make(map[string]Contents)}
}

// Add sets the contents of chunkPath, replacing earlier contents.
func (t *Table) Add(chunkPath string, entries ...Entry) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.chunks[chunkPath] = Contents(entries)
	return t
}

// Load implements Source.
func (t *Table) Load(_ context.Context, chunkPath string) (Contents, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c, ok := t.chunks[chunkPath]
	if !ok {
		return nil, errors.NotFound(errors.PhaseLoad, "chunk", chunkPath)
	}
	return c, nil
}

// DefaultPluginSymbol is the symbol a plugin chunk exports.
const DefaultPluginSymbol = "Chunk"

// PluginSource loads chunks built with -buildmode=plugin. The plugin exports
// Symbol as either a runtime.Contents variable or a func() runtime.Contents.
type PluginSource struct {
	Root   string
	Symbol string
}

// NewPluginSource creates a plugin source resolving chunk paths under root.
func NewPluginSource(root string) *PluginSource {
	return &PluginSource{Root: root, Symbol: DefaultPluginSymbol}
}

// Load implements Source.
func (p *PluginSource) Load(_ context.Context, chunkPath string) (contents Contents, err error) {
	path := filepath.Join(p.Root, filepath.FromSlash(chunkPath))

	// plugin init code is arbitrary; keep its panics inside the error path
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open plugin %s: panic: %v", path, r)
		}
	}()

	plug, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}

	symbol := p.Symbol
	if symbol == "" {
		symbol = DefaultPluginSymbol
	}
	sym, err := plug.Lookup(symbol)
	if err != nil {
		return nil, err
	}

	switch v := sym.(type) {
	case *Contents:
		return *v, nil
	case func() Contents:
		return v(), nil
	default:
		return nil, errors.InvalidInput(errors.PhaseLoad,
			fmt.Sprintf("plugin %s: symbol %s has type %T", path, symbol, sym))
	}
}
