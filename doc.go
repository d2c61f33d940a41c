// Package chunkruntime is a module loading and instantiation runtime for
// chunked, bundler-produced programs.
//
// A build splits a program into chunks. Each chunk carries a table of module
// factories keyed by module id. The runtime merges chunk tables into one
// factory table, runs factories on first use and caches the resulting module
// records, including the records of modules whose factory failed.
//
// # Architecture Overview
//
//	chunkruntime/        Package documentation
//	├── runtime/         Runtime, factory table, chunk loading, factory Context
//	├── module/          Module records, exports objects, ES interop, provenance
//	├── chunk/           Chunk kinds, loaded set, memoized async load cache
//	├── future/          Settle-once results for async loads
//	├── wasm/            WebAssembly compile and instantiate via wazero
//	├── metrics/         Prometheus instrumentation
//	├── config/          HCL configuration file
//	├── errors/          Structured error types for debugging
//	└── cmd/modrun/      CLI with an interactive module browser
//
// # Quick Start
//
//	table := runtime.NewTable().Add("chunks/main.js",
//	    runtime.Single("app.js", func(c *runtime.Context) error {
//	        c.Exports().Set("answer", 42)
//	        return nil
//	    }),
//	)
//
//	opts := runtime.DefaultOptions()
//	opts.Source = table
//	rt, err := runtime.New(opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := rt.LoadChunk(ctx, "chunks/main.js", module.RuntimeEntry("chunks/main.js")); err != nil {
//	    log.Fatal(err)
//	}
//	m, err := rt.GetOrInstantiateRuntimeModule(ctx, "app.js", "chunks/main.js")
//
// # Error Handling
//
// Errors carry the phase and kind of the failure:
//
//	_, err := rt.GetOrInstantiateRuntimeModule(ctx, id, chunkPath)
//	if errors.Is(err, errors.ErrFactoryMissing) {
//	    // module removed by an HMR update
//	}
//
//	var cle *runtime.ChunkLoadError
//	if errors.As(err, &cle) {
//	    fmt.Println(cle.ChunkPath, cle.Source.LoadReason())
//	}
package chunkruntime
