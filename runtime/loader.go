package runtime

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/chunk-runtime/chunk"
	"github.com/wippyai/chunk-runtime/errors"
	"github.com/wippyai/chunk-runtime/future"
	"github.com/wippyai/chunk-runtime/metrics"
	"github.com/wippyai/chunk-runtime/module"
)

// LoadChunk synchronously merges the factories of chunkPath into the
// factory table.
//
// Chunks of kinds this runtime cannot execute and chunks already loaded are
// no-ops. A failure is returned as *ChunkLoadError and is not remembered, so
// the next call retries.
func (r *Runtime) LoadChunk(ctx context.Context, chunkPath string, source module.Provenance) error {
	if !r.classifier.Executable(chunkPath) {
		Logger().Debug("skipping non-executable chunk",
			zap.String("chunk", chunkPath),
			zap.Stringer("kind", r.classifier.Classify(chunkPath)))
		return nil
	}
	if r.loaded.Has(chunkPath) {
		return nil
	}

	if err := r.installChunk(ctx, chunkPath, source); err != nil {
		r.metrics.IncChunkLoadFailure(metrics.ModeSync)
		return err
	}
	r.metrics.IncChunkLoaded(metrics.ModeSync)
	return nil
}

// LoadChunkAsync loads chunkPath through the memoized async path.
//
// The first result per path is kept, failures included: every later caller
// gets the identical future until ClearChunkCache. Kinds this runtime
// cannot execute resolve immediately.
func (r *Runtime) LoadChunkAsync(ctx context.Context, source module.Provenance, chunkPath string) *chunk.Result {
	if !r.classifier.Executable(chunkPath) {
		return future.Resolved(struct{}{})
	}

	if res, ok := r.chunks.Get(chunkPath); ok {
		if res.Err() != nil {
			r.metrics.IncNegativeCacheHit()
		}
		return res
	}

	return r.chunks.Load(chunkPath, func() error {
		if r.loaded.Has(chunkPath) {
			return nil
		}
		if err := r.installChunk(ctx, chunkPath, source); err != nil {
			r.metrics.IncChunkLoadFailure(metrics.ModeAsync)
			return err
		}
		r.metrics.IncChunkLoaded(metrics.ModeAsync)
		return nil
	})
}

// LoadChunkByURL resolves ref against the file URL of the runtime root and
// loads the resulting chunk through LoadChunkAsync. Only file URLs are
// accepted.
func (r *Runtime) LoadChunkByURL(ctx context.Context, source module.Provenance, ref string) *chunk.Result {
	chunkPath, err := r.chunkPathFromURL(ref)
	if err != nil {
		return future.Rejected[struct{}](chunkLoadError(ref, source, err))
	}
	return r.LoadChunkAsync(ctx, source, chunkPath)
}

// ClearChunkCache forgets memoized async loads, failures included. Loaded
// factories and module records are kept.
func (r *Runtime) ClearChunkCache() {
	r.chunks.Clear()
}

func (r *Runtime) installChunk(ctx context.Context, chunkPath string, source module.Provenance) error {
	contents, err := r.source.Load(ctx, chunkPath)
	if err != nil {
		Logger().Warn("chunk load failed",
			zap.String("chunk", chunkPath),
			zap.String("reason", source.LoadReason()),
			zap.Error(err))
		return chunkLoadError(chunkPath, source, err)
	}

	n := r.factories.Install(contents)
	r.loaded.Add(chunkPath)

	Logger().Debug("chunk loaded",
		zap.String("chunk", chunkPath),
		zap.Int("entries", len(contents)),
		zap.Int("registered", n))
	return nil
}

func (r *Runtime) chunkPathFromURL(ref string) (string, error) {
	u, err := r.RelativeURL(ref)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", errors.Unsupported(errors.PhaseResolve, "chunk url scheme "+u.Scheme)
	}

	rel, err := filepath.Rel(r.root, filepath.FromSlash(u.Path))
	if err != nil {
		return "", errors.Wrap(errors.PhaseResolve, errors.KindInvalidInput, err, "chunk url "+ref)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", errors.InvalidInput(errors.PhaseResolve, "chunk url "+ref+" resolves outside the runtime root")
	}
	return rel, nil
}
