package runtime

import (
	"github.com/wippyai/chunk-runtime/errors"
	"github.com/wippyai/chunk-runtime/module"
)

// ChunkLoadError provides context when a chunk cannot be loaded.
type ChunkLoadError struct {
	Cause     error
	Source    module.Provenance
	ChunkPath string
}

func (e *ChunkLoadError) Error() string {
	return e.Structured().Error()
}

func (e *ChunkLoadError) Unwrap() error {
	return e.Cause
}

// Is matches errors.ErrChunkLoad.
func (e *ChunkLoadError) Is(target error) bool {
	return e.Structured().Is(target)
}

// Structured returns the error as an *errors.Error of kind chunk_load.
func (e *ChunkLoadError) Structured() *errors.Error {
	return errors.ChunkLoad(e.ChunkPath, e.Source.LoadReason(), e.Cause)
}

func chunkLoadError(chunkPath string, source module.Provenance, cause error) *ChunkLoadError {
	return &ChunkLoadError{
		ChunkPath: chunkPath,
		Source:    source,
		Cause:     cause,
	}
}
