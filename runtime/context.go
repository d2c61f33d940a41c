package runtime

import (
	"context"
	"net/url"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/chunk-runtime/chunk"
	"github.com/wippyai/chunk-runtime/errors"
	"github.com/wippyai/chunk-runtime/future"
	"github.com/wippyai/chunk-runtime/module"
)

// Context is the capability set handed to a running factory. Requires and
// chunk loads made through it are attributed to the module being
// instantiated.
type Context struct {
	ctx     context.Context
	rt      *Runtime
	module  *module.Module
	exports *module.Exports
}

func newContext(ctx context.Context, rt *Runtime, m *module.Module) *Context {
	exports, _ := m.Exports().(*module.Exports)
	return &Context{ctx: ctx, rt: rt, module: m, exports: exports}
}

// Context returns the context of the instantiation request.
func (c *Context) Context() context.Context { return c.ctx }

// Module returns the record being populated.
func (c *Context) Module() *module.Module { return c.module }

// ID returns the id of the module being instantiated.
func (c *Context) ID() string { return c.module.ID() }

// Exports returns the exports object the record started with. Modules that
// require this one during a cycle hold the same object.
func (c *Context) Exports() *module.Exports { return c.exports }

func (c *Context) source() module.Provenance {
	return module.ParentImport(c.module.ID())
}

// Require returns the exports of id, instantiating it first if needed.
// A dependency whose factory failed earlier yields whatever exports it
// produced before failing.
func (c *Context) Require(id string) (any, error) {
	m, err := c.rt.GetOrInstantiateFromParent(c.ctx, id, c.module.ID())
	if err != nil {
		return nil, err
	}
	return m.Exports(), nil
}

// Import returns the ES namespace of id. CommonJS exports are wrapped in an
// interop namespace once and the namespace is kept on the record.
func (c *Context) Import(id string) (*module.Exports, error) {
	m, err := c.rt.GetOrInstantiateFromParent(c.ctx, id, c.module.ID())
	if err != nil {
		return nil, err
	}
	if ns := m.Namespace(); ns != nil {
		return ns, nil
	}

	raw := m.Exports()
	ns := module.InteropESM(raw, module.NewExports(), module.IsESModule(raw))
	m.SetNamespace(ns)
	return ns, nil
}

// Export publishes ES bindings on the module's exports object, which also
// becomes its namespace.
func (c *Context) Export(getters map[string]func() any) {
	c.module.SetNamespace(c.exports)
	c.exports.MarkESModule()

	names := make([]string, 0, len(getters))
	for name := range getters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.exports.Define(name, getters[name])
	}
}

// ExportValue replaces the exports with an arbitrary value.
func (c *Context) ExportValue(v any) {
	c.module.SetExports(v)
}

// ExportNamespace replaces both the exports and the namespace with ns.
func (c *Context) ExportNamespace(ns *module.Exports) {
	c.module.SetExports(ns)
	c.module.SetNamespace(ns)
}

// AsyncModule marks the module as asynchronous and runs body. The factory
// itself succeeds; a failure of body is reported through Module.Wait.
func (c *Context) AsyncModule(body func(ctx context.Context) error) {
	f := future.New[struct{}]()
	c.module.SetAsync(f)

	if err := body(c.ctx); err != nil {
		f.Reject(errors.FactoryExecution(c.module.ID(), err))
		return
	}
	f.Resolve(struct{}{})
}

// RuntimeRequire loads a host module without interop.
func (c *Context) RuntimeRequire(name string) (any, error) {
	return c.rt.RuntimeRequire(c.ctx, name)
}

// ExternalRequire loads a host module. With esm set, a non-ESM value is
// wrapped in an interop namespace.
func (c *Context) ExternalRequire(id string, esm bool) (any, error) {
	return c.rt.ExternalRequire(c.ctx, id, esm)
}

// ExternalImport loads a host module as an ES namespace.
func (c *Context) ExternalImport(id string) *future.Future[any] {
	return c.rt.ExternalImport(c.ctx, id)
}

// Cache returns the shared module cache.
func (c *Context) Cache() *module.Cache { return c.rt.modules }

// Factories returns the shared factory table.
func (c *Context) Factories() *Factories { return c.rt.factories }

// LoadChunk synchronously loads chunkPath.
func (c *Context) LoadChunk(chunkPath string) error {
	return c.rt.LoadChunk(c.ctx, chunkPath, c.source())
}

// LoadChunkAsync loads chunkPath through the memoized async path.
func (c *Context) LoadChunkAsync(chunkPath string) *chunk.Result {
	return c.rt.LoadChunkAsync(c.ctx, c.source(), chunkPath)
}

// LoadChunkByURL resolves ref against the runtime root and loads it.
func (c *Context) LoadChunkByURL(ref string) *chunk.Result {
	return c.rt.LoadChunkByURL(c.ctx, c.source(), ref)
}

// ClearChunkCache forgets memoized async chunk loads.
func (c *Context) ClearChunkCache() {
	c.rt.ClearChunkCache()
}

// InstantiateWASM instantiates the WebAssembly chunk at chunkPath.
func (c *Context) InstantiateWASM(chunkPath string) (api.Module, error) {
	return c.rt.InstantiateWASM(c.ctx, chunkPath)
}

// CompileWASM compiles the WebAssembly chunk at chunkPath.
func (c *Context) CompileWASM(chunkPath string) (wazero.CompiledModule, error) {
	return c.rt.CompileWASM(c.ctx, chunkPath)
}

// ResolveAbsolutePath joins p to the runtime root.
func (c *Context) ResolveAbsolutePath(p string) string {
	return c.rt.ResolveAbsolutePath(p)
}

// RelativeURL resolves ref against the file URL of the runtime root.
func (c *Context) RelativeURL(ref string) (*url.URL, error) {
	return c.rt.RelativeURL(ref)
}

// ResolvePath requires id and turns an exported asset path into an absolute
// path. Non-path exports are returned unchanged.
func (c *Context) ResolvePath(id string) (any, error) {
	return c.rt.ResolveModulePath(c.Require, id)
}

// WorkerEntry is not available in this runtime.
func (c *Context) WorkerEntry(chunks ...string) (string, error) {
	return c.rt.ResolveWorkerEntry(chunks...)
}

// RequireStub stands in for dynamic requires the bundler could not resolve.
func (c *Context) RequireStub(id string) (any, error) {
	return nil, errors.New(errors.PhaseRuntime, errors.KindUnsupported).
		Module(id).
		Detail("dynamic usage of require is not supported").
		Build()
}
