package runtime

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/chunk-runtime/errors"
)

// InstantiateWASM resolves chunkPath under the root and instantiates it with
// the configured loader.
func (r *Runtime) InstantiateWASM(ctx context.Context, chunkPath string) (api.Module, error) {
	if r.wasm == nil {
		return nil, errors.Unsupported(errors.PhaseRuntime, "webassembly loader not configured")
	}
	return r.wasm.Instantiate(ctx, r.ResolveAbsolutePath(chunkPath))
}

// CompileWASM resolves chunkPath under the root and compiles it with the
// configured loader.
func (r *Runtime) CompileWASM(ctx context.Context, chunkPath string) (wazero.CompiledModule, error) {
	if r.wasm == nil {
		return nil, errors.Unsupported(errors.PhaseRuntime, "webassembly loader not configured")
	}
	return r.wasm.Compile(ctx, r.ResolveAbsolutePath(chunkPath))
}

// ResolveWorkerEntry is not implemented by this runtime variant; worker
// entries need the browser runtime.
func (r *Runtime) ResolveWorkerEntry(chunks ...string) (string, error) {
	return "", errors.Unsupported(errors.PhaseRuntime, "worker entries are not available in this runtime")
}
