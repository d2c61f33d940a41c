package runtime

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/chunk-runtime/errors"
	"github.com/wippyai/chunk-runtime/metrics"
	"github.com/wippyai/chunk-runtime/module"
)

// Instantiate runs the factory of id and returns its record.
//
// The record is published in the cache before the factory runs, so a cyclic
// require of id from inside the factory observes the same record and its
// partially populated exports. When the factory fails the error is stored on
// the record, which stays cached, and returned.
func (r *Runtime) Instantiate(ctx context.Context, id string, source module.Provenance) (*module.Module, error) {
	factory, ok := r.factories.Lookup(id)
	if !ok {
		r.metrics.IncInstantiationFailure(metrics.ReasonFactoryMissing)
		return nil, errors.FactoryMissing(id, source.InstantiationReason())
	}

	m, created := r.modules.Reserve(id)
	if !created {
		// another caller published the record first
		return m, nil
	}

	Logger().Debug("instantiating module",
		zap.String("module", id),
		zap.Stringer("source", source.Type))

	c := newContext(ctx, r, m)
	start := time.Now()
	err := runFactory(factory, c)
	r.metrics.ObserveFactory(start)

	if err != nil {
		ferr := errors.FactoryExecution(id, err)
		m.Fail(ferr)
		r.metrics.IncInstantiationFailure(metrics.ReasonFactoryExecution)
		Logger().Warn("module factory failed",
			zap.String("module", id),
			zap.String("reason", source.InstantiationReason()),
			zap.Error(err))
		return nil, ferr
	}

	m.MarkLoaded()
	r.metrics.IncInstantiated()

	// a cycle may have handed out a namespace before the exports settled
	if ns := m.Namespace(); ns != nil && !sameExports(m.Exports(), ns) {
		module.InteropESM(m.Exports(), ns, false)
	}

	return m, nil
}

func runFactory(f Factory, c *Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("factory panic: %w", e)
			} else {
				err = fmt.Errorf("factory panic: %v", rec)
			}
		}
	}()
	return f(c)
}

func sameExports(exports any, ns *module.Exports) bool {
	e, ok := exports.(*module.Exports)
	return ok && e == ns
}

// GetOrInstantiateFromParent returns the record of id, instantiating it on
// behalf of parentID when absent. A cached record is returned as is, even
// when its factory failed.
func (r *Runtime) GetOrInstantiateFromParent(ctx context.Context, id, parentID string) (*module.Module, error) {
	if m, ok := r.modules.Get(id); ok {
		return m, nil
	}
	return r.Instantiate(ctx, id, module.ParentImport(parentID))
}

// GetOrInstantiateRuntimeModule is the entry point for root-level modules of
// chunkPath. Unlike parent lookups, a cached record whose factory failed
// returns the recorded error.
func (r *Runtime) GetOrInstantiateRuntimeModule(ctx context.Context, moduleID, chunkPath string) (*module.Module, error) {
	if m, ok := r.modules.Get(moduleID); ok {
		if err := m.Err(); err != nil {
			return nil, err
		}
		return m, nil
	}
	return r.Instantiate(ctx, moduleID, module.RuntimeEntry(chunkPath))
}
