package runtime

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wippyai/chunk-runtime/errors"
	"github.com/wippyai/chunk-runtime/module"
)

func TestLoadChunk_Idempotent(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource(NewTable().Add("chunks/a.js",
		Single("a.js", value("a", 1)),
		Single("b.js", value("b", 2)),
	))
	rt := newTestRuntime(t, src)

	for i := 0; i < 3; i++ {
		if err := rt.LoadChunk(ctx, "chunks/a.js", module.RuntimeEntry("chunks/a.js")); err != nil {
			t.Fatalf("LoadChunk #%d: %v", i, err)
		}
	}

	if n := src.count("chunks/a.js"); n != 1 {
		t.Errorf("source called %d times, want 1", n)
	}
	if rt.Factories().Len() != 2 {
		t.Errorf("factories = %d, want 2", rt.Factories().Len())
	}
}

func TestLoadChunk_FailureRetries(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource(NewTable().Add("chunks/b.js", Single("b.js", value("b", 1))))
	rt := newTestRuntime(t, src)

	cause := stderrors.New("network down")
	src.setFailure("chunks/b.js", cause)

	err := rt.LoadChunk(ctx, "chunks/b.js", module.ParentImport("app.js"))
	if err == nil {
		t.Fatal("expected load failure")
	}

	var cle *ChunkLoadError
	if !errors.As(err, &cle) {
		t.Fatalf("err type %T, want *ChunkLoadError", err)
	}
	if cle.ChunkPath != "chunks/b.js" || cle.Source.ParentID != "app.js" {
		t.Errorf("error context = %+v", cle)
	}
	if !errors.Is(err, errors.ErrChunkLoad) || !errors.Is(err, cause) {
		t.Errorf("err = %v, want chunk load wrapping cause", err)
	}
	if want := "failed to load chunk chunks/b.js from module app.js"; !strings.Contains(err.Error(), want) {
		t.Errorf("message %q missing %q", err, want)
	}
	if got, want := err.Error(), errors.ChunkLoad("chunks/b.js", "from module app.js", cause).Error(); got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if s := cle.Structured(); s.Chunk != "chunks/b.js" || s.Cause != cause {
		t.Errorf("structured = %+v", s)
	}

	src.setFailure("chunks/b.js", nil)
	if err := rt.LoadChunk(ctx, "chunks/b.js", module.ParentImport("app.js")); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if n := src.count("chunks/b.js"); n != 2 {
		t.Errorf("source called %d times, want 2", n)
	}
	if _, ok := rt.Factories().Lookup("b.js"); !ok {
		t.Error("factory not registered after retry")
	}
}

func TestLoadChunk_FirstWriterWinsAcrossChunks(t *testing.T) {
	ctx := context.Background()
	src := NewTable().
		Add("chunks/one.js", Single("shared.js", value("from", "one"))).
		Add("chunks/two.js", Single("shared.js", value("from", "two")))
	rt := newTestRuntime(t, src)

	for _, p := range []string{"chunks/one.js", "chunks/two.js"} {
		if err := rt.LoadChunk(ctx, p, module.RuntimeEntry(p)); err != nil {
			t.Fatalf("LoadChunk %s: %v", p, err)
		}
	}

	m, err := rt.GetOrInstantiateRuntimeModule(ctx, "shared.js", "chunks/two.js")
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if v, _ := m.Exports().(*module.Exports).Get("from"); v != "one" {
		t.Errorf("from = %v, want one", v)
	}
}

func TestLoadChunkAsync_NegativeCaching(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource(NewTable().Add("chunks/c.js", Single("c.js", value("c", 1))))
	rt := newTestRuntime(t, src)

	src.setFailure("chunks/c.js", stderrors.New("boom"))
	source := module.ParentImport("app.js")

	r1 := rt.LoadChunkAsync(ctx, source, "chunks/c.js")
	_, err1 := r1.Wait(ctx)
	if err1 == nil {
		t.Fatal("expected async failure")
	}

	src.setFailure("chunks/c.js", nil)
	r2 := rt.LoadChunkAsync(ctx, source, "chunks/c.js")
	if r1 != r2 {
		t.Error("second request returned a different future")
	}
	if _, err2 := r2.Wait(ctx); err2 != err1 {
		t.Errorf("second error %v is not the cached instance", err2)
	}
	if n := src.count("chunks/c.js"); n != 1 {
		t.Errorf("source called %d times, want 1", n)
	}

	rt.ClearChunkCache()
	r3 := rt.LoadChunkAsync(ctx, source, "chunks/c.js")
	if r3 == r1 {
		t.Error("cleared cache returned the old future")
	}
	if _, err := r3.Wait(ctx); err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if n := src.count("chunks/c.js"); n != 2 {
		t.Errorf("source called %d times, want 2", n)
	}
}

func TestLoadChunkAsync_Concurrent(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource(NewTable().Add("chunks/d.js", Single("d.js", value("d", 1))))
	rt := newTestRuntime(t, src)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rt.LoadChunkAsync(ctx, module.RuntimeEntry("chunks/d.js"), "chunks/d.js").Wait(ctx); err != nil {
				t.Errorf("async load: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := src.count("chunks/d.js"); n != 1 {
		t.Errorf("source called %d times, want 1", n)
	}
}

func TestLoadChunkAsync_AfterSyncLoad(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource(NewTable().Add("chunks/e.js", Single("e.js", value("e", 1))))
	rt := newTestRuntime(t, src)

	if err := rt.LoadChunk(ctx, "chunks/e.js", module.RuntimeEntry("chunks/e.js")); err != nil {
		t.Fatalf("LoadChunk: %v", err)
	}
	if _, err := rt.LoadChunkAsync(ctx, module.RuntimeEntry("chunks/e.js"), "chunks/e.js").Wait(ctx); err != nil {
		t.Fatalf("LoadChunkAsync: %v", err)
	}
	if n := src.count("chunks/e.js"); n != 1 {
		t.Errorf("source called %d times, want 1", n)
	}
}

func TestLoadChunk_NonExecutableKinds(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource(NewTable())
	rt := newTestRuntime(t, src)

	for _, p := range []string{"static/app.css", "static/app.css?v=2", "static/lib.wasm", "static/data.json"} {
		if err := rt.LoadChunk(ctx, p, module.RuntimeEntry(p)); err != nil {
			t.Errorf("LoadChunk %s: %v", p, err)
		}
		if _, err := rt.LoadChunkAsync(ctx, module.RuntimeEntry(p), p).Wait(ctx); err != nil {
			t.Errorf("LoadChunkAsync %s: %v", p, err)
		}
		if n := src.count(p); n != 0 {
			t.Errorf("source consulted for %s", p)
		}
	}
	if rt.Factories().Len() != 0 {
		t.Error("non-executable chunks registered factories")
	}
}

func TestLoadChunkByURL(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource(NewTable().Add("chunks/f.js", Single("f.js", value("f", 1))))
	rt := newTestRuntime(t, src)
	source := module.ParentImport("app.js")

	if _, err := rt.LoadChunkByURL(ctx, source, "chunks/f.js").Wait(ctx); err != nil {
		t.Fatalf("relative url: %v", err)
	}

	abs := "file://" + filepath.ToSlash(filepath.Join(rt.Root(), "chunks", "f.js"))
	if _, err := rt.LoadChunkByURL(ctx, source, abs).Wait(ctx); err != nil {
		t.Fatalf("file url: %v", err)
	}
	if n := src.count("chunks/f.js"); n != 1 {
		t.Errorf("source called %d times, want 1", n)
	}

	_, err := rt.LoadChunkByURL(ctx, source, "https://cdn.example.com/chunks/f.js").Wait(ctx)
	if !errors.Is(err, errors.ErrChunkLoad) {
		t.Fatalf("http url err = %v, want chunk load error", err)
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("http url err = %v, want unsupported cause", err)
	}

	outside := []string{
		"../../etc/evil.js",
		"file://" + filepath.ToSlash(filepath.Join(filepath.Dir(rt.Root()), "evil.js")),
		"file://" + filepath.ToSlash(filepath.Dir(rt.Root())) + "/",
	}
	for _, ref := range outside {
		_, err := rt.LoadChunkByURL(ctx, source, ref).Wait(ctx)
		if !errors.Is(err, errors.ErrChunkLoad) {
			t.Errorf("%s: err = %v, want chunk load error", ref, err)
		}
		if !errors.Is(err, errors.New(errors.PhaseResolve, errors.KindInvalidInput).Build()) {
			t.Errorf("%s: err = %v, want invalid input cause", ref, err)
		}
	}
	for path, n := range src.snapshot() {
		if path != "chunks/f.js" {
			t.Errorf("source consulted for %s (%d calls)", path, n)
		}
	}
}

func TestContext_LoadChunkAttribution(t *testing.T) {
	ctx := context.Background()
	src := newCountingSource(NewTable().Add("chunks/lazy.js", Single("lazy.js", value("lazy", true))))
	rt := newTestRuntime(t, src)
	src.setFailure("chunks/lazy.js", stderrors.New("offline"))

	var loadErr error
	rt.Factories().Register("page.js", func(c *Context) error {
		loadErr = c.LoadChunk("chunks/lazy.js")
		return nil
	})

	if _, err := rt.GetOrInstantiateRuntimeModule(ctx, "page.js", "chunks/main.js"); err != nil {
		t.Fatalf("instantiate: %v", err)
	}

	var cle *ChunkLoadError
	if !errors.As(loadErr, &cle) {
		t.Fatalf("load error type %T", loadErr)
	}
	if cle.Source.Type != module.SourceParent || cle.Source.ParentID != "page.js" {
		t.Errorf("provenance = %+v, want parent page.js", cle.Source)
	}
}

func TestContext_LoadThenRequire(t *testing.T) {
	ctx := context.Background()
	src := NewTable().Add("chunks/lazy.js", Single("lazy.js", value("answer", 42)))
	rt := newTestRuntime(t, src)

	var got any
	rt.Factories().Register("page.js", func(c *Context) error {
		if _, err := c.LoadChunkAsync("chunks/lazy.js").Wait(c.Context()); err != nil {
			return err
		}
		exports, err := c.Require("lazy.js")
		if err != nil {
			return err
		}
		got, _ = exports.(*module.Exports).Get("answer")
		return nil
	})

	if _, err := rt.GetOrInstantiateRuntimeModule(ctx, "page.js", "chunks/main.js"); err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if got != 42 {
		t.Errorf("answer = %v, want 42", got)
	}
}
