// Package wasm compiles and instantiates WebAssembly chunks with wazero.
//
// The chunk runtime only resolves a chunk path to a file; this package owns
// the wazero runtime, reads the file and caches compiled modules per path.
// Host imports are registered directly on Runtime() before instantiation:
//
//	loader, err := wasm.NewLoader(ctx, nil)
//	defer loader.Close(ctx)
//
//	_, err := loader.Runtime().NewHostModuleBuilder("env").
//		NewFunctionBuilder().WithFunc(hostLog).Export("log").
//		Instantiate(ctx)
//
//	mod, err := loader.Instantiate(ctx, "/srv/app/chunks/lib.wasm")
package wasm
