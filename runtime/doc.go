// Package runtime loads chunks and instantiates the modules they carry.
//
// # Quick Start
//
//	table := runtime.NewTable().
//		Add("chunks/app.js",
//			runtime.Single("app/main.js", mainFactory),
//			runtime.Shared("lib/util.js", utilFactory, "lib/util.mjs"),
//		)
//
//	rt, err := runtime.New(runtime.Options{Root: "dist", Source: table})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := rt.LoadChunk(ctx, "chunks/app.js", module.RuntimeEntry("chunks/app.js")); err != nil {
//	    log.Fatal(err)
//	}
//	m, err := rt.GetOrInstantiateRuntimeModule(ctx, "app/main.js", "chunks/app.js")
//
// # Factories
//
// A Factory receives a *Context, the fixed set of operations generated code
// may use: Require and Import for other modules, Export, ExportValue and
// ExportNamespace to publish exports, chunk loaders, external module access,
// WebAssembly delegates and path helpers.
//
//	func utilFactory(c *runtime.Context) error {
//	    c.Export(map[string]func() any{
//	        "greet": func() any { return greet },
//	    })
//	    return nil
//	}
//
// # Instantiation
//
// A record is published in the cache before its factory runs, so cycles see
// the in-progress exports instead of recursing. A failed factory leaves its
// error on the record:
//
//	GetOrInstantiateFromParent     returns the failed record without error
//	GetOrInstantiateRuntimeModule  returns the recorded error
//
// # Chunk Loading
//
// LoadChunk is synchronous and retries failed chunks on the next call.
// LoadChunkAsync memoizes per path and keeps failures until ClearChunkCache.
// Stylesheets and other non-executable chunks load as no-ops on both paths.
//
// # Thread Safety
//
// Runtime is safe for concurrent use. The tables only ever insert missing
// keys; a factory is never run twice for the same record.
package runtime
