package runtime

import (
	"context"
	"fmt"
	"testing"

	"github.com/wippyai/chunk-runtime/module"
)

// BenchmarkGetOrInstantiate_Cached benchmarks the cached lookup path
func BenchmarkGetOrInstantiate_Cached(b *testing.B) {
	ctx := context.Background()
	rt, err := New(DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	rt.Factories().Register("a.js", value("a", 1))

	if _, err := rt.GetOrInstantiateRuntimeModule(ctx, "a.js", "c.js"); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rt.GetOrInstantiateFromParent(ctx, "a.js", "b.js"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkInstantiate_Chain benchmarks instantiating a require chain
func BenchmarkInstantiate_Chain(b *testing.B) {
	ctx := context.Background()
	const depth = 32

	entries := make([]Entry, depth)
	for i := 0; i < depth; i++ {
		next := fmt.Sprintf("m%d.js", i+1)
		last := i == depth-1
		entries[i] = Single(fmt.Sprintf("m%d.js", i), func(c *Context) error {
			if last {
				return nil
			}
			_, err := c.Require(next)
			return err
		})
	}
	table := NewTable().Add("chunks/chain.js", entries...)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		opts := DefaultOptions()
		opts.Source = table
		rt, err := New(opts)
		if err != nil {
			b.Fatal(err)
		}
		if err := rt.LoadChunk(ctx, "chunks/chain.js", module.RuntimeEntry("chunks/chain.js")); err != nil {
			b.Fatal(err)
		}
		if _, err := rt.GetOrInstantiateRuntimeModule(ctx, "m0.js", "chunks/chain.js"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLoadChunkAsync_Cached benchmarks repeated async loads of one chunk
func BenchmarkLoadChunkAsync_Cached(b *testing.B) {
	ctx := context.Background()
	opts := DefaultOptions()
	opts.Source = NewTable().Add("chunks/a.js", Single("a.js", value("a", 1)))
	rt, err := New(opts)
	if err != nil {
		b.Fatal(err)
	}
	source := module.RuntimeEntry("chunks/a.js")

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := rt.LoadChunkAsync(ctx, source, "chunks/a.js").Wait(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
