package runtime

import (
	"context"

	"github.com/wippyai/chunk-runtime/errors"
	"github.com/wippyai/chunk-runtime/future"
	"github.com/wippyai/chunk-runtime/module"
)

// External serves modules the bundler left to the host program.
type External interface {
	Require(ctx context.Context, id string) (any, error)
	Import(ctx context.Context, id string) (any, error)
}

// StaticExternals serves host modules from a fixed map.
type StaticExternals map[string]any

// Require implements External.
func (s StaticExternals) Require(_ context.Context, id string) (any, error) {
	v, ok := s[id]
	if !ok {
		return nil, errors.NotFound(errors.PhaseRuntime, "external module", id)
	}
	return v, nil
}

// Import implements External.
func (s StaticExternals) Import(ctx context.Context, id string) (any, error) {
	return s.Require(ctx, id)
}

func (r *Runtime) external() (External, error) {
	if r.externals == nil {
		return nil, errors.Unsupported(errors.PhaseRuntime, "no external module provider configured")
	}
	return r.externals, nil
}

// RuntimeRequire loads a host module as is.
func (r *Runtime) RuntimeRequire(ctx context.Context, name string) (any, error) {
	ext, err := r.external()
	if err != nil {
		return nil, err
	}
	v, err := ext.Require(ctx, name)
	if err != nil {
		return nil, errors.External(name, err)
	}
	return v, nil
}

// ExternalRequire loads a host module. With esm set, a value that is not
// already an ES namespace is wrapped in one, keeping its own default export.
func (r *Runtime) ExternalRequire(ctx context.Context, id string, esm bool) (any, error) {
	raw, err := r.RuntimeRequire(ctx, id)
	if err != nil {
		return nil, err
	}
	if !esm || module.IsESModule(raw) {
		return raw, nil
	}
	return module.InteropESM(raw, module.NewExports(), true), nil
}

// ExternalImport loads a host module as an ES namespace. A namespace whose
// default export is itself a namespace with a default binding is unwrapped
// one level.
func (r *Runtime) ExternalImport(ctx context.Context, id string) *future.Future[any] {
	ext, err := r.external()
	if err != nil {
		return future.Rejected[any](err)
	}

	raw, err := ext.Import(ctx, id)
	if err != nil {
		return future.Rejected[any](errors.External(id, err))
	}

	if ns, ok := raw.(*module.Exports); ok && ns.ESModule() {
		if d, ok := ns.Get("default"); ok {
			if inner, ok := d.(*module.Exports); ok && inner.Has("default") {
				return future.Resolved[any](module.InteropESM(inner, module.NewExports(), true))
			}
		}
	}
	return future.Resolved(raw)
}
