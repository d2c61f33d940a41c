// Package errors provides structured error types for the chunk runtime.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the module id and chunk path involved, a human-readable
// detail and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindChunkLoad).
//		Chunk("server/chunks/app.js").
//		Detail("failed to load chunk from module %s", parent).
//		Cause(err).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FactoryMissing("app/page.js", reason)
//	err := errors.Unsupported(errors.PhaseRuntime, "worker entries")
//
// Sentinels (ErrFactoryMissing, ErrChunkLoad, ...) match any error of the same
// phase and kind through errors.Is.
package errors
