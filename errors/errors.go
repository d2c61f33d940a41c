package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInstantiate Phase = "instantiate" // module instantiation
	PhaseLoad        Phase = "load"        // chunk loading
	PhaseResolve     Phase = "resolve"     // path and reference resolution
	PhaseRuntime     Phase = "runtime"     // runtime helpers
	PhaseConfig      Phase = "config"      // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindFactoryMissing   Kind = "factory_missing"
	KindChunkLoad        Kind = "chunk_load"
	KindFactoryExecution Kind = "factory_execution"
	KindUnsupported      Kind = "unsupported"
	KindInvalidInput     Kind = "invalid_input"
	KindNotFound         Kind = "not_found"
	KindExternal         Kind = "external"
)

// Sentinels for errors.Is checks. Matching is by phase and kind only.
var (
	ErrFactoryMissing   = &Error{Phase: PhaseInstantiate, Kind: KindFactoryMissing}
	ErrFactoryExecution = &Error{Phase: PhaseInstantiate, Kind: KindFactoryExecution}
	ErrChunkLoad        = &Error{Phase: PhaseLoad, Kind: KindChunkLoad}
	ErrUnsupported      = &Error{Phase: PhaseRuntime, Kind: KindUnsupported}
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Module string
	Chunk  string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Module != "" {
		b.WriteString(" module ")
		b.WriteString(e.Module)
	}
	if e.Chunk != "" {
		b.WriteString(" chunk ")
		b.WriteString(e.Chunk)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// Unsupported errors match ErrUnsupported regardless of phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == ErrUnsupported {
		return e.Kind == KindUnsupported
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Module sets the module id
func (b *Builder) Module(id string) *Builder {
	b.err.Module = id
	return b
}

// Chunk sets the chunk path
func (b *Builder) Chunk(path string) *Builder {
	b.err.Chunk = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// FactoryMissing reports a module id with no registered factory.
// reason describes why the module was requested.
func FactoryMissing(id, reason string) *Error {
	return &Error{
		Phase:  PhaseInstantiate,
		Kind:   KindFactoryMissing,
		Module: id,
		Detail: fmt.Sprintf("module %s was instantiated %s, but the module factory is not available; it might have been deleted in an HMR update", id, reason),
	}
}

// FactoryExecution wraps an error returned (or panicked) by a module factory.
func FactoryExecution(id string, cause error) *Error {
	return &Error{
		Phase:  PhaseInstantiate,
		Kind:   KindFactoryExecution,
		Module: id,
		Detail: "module factory failed",
		Cause:  cause,
	}
}

// ChunkLoad reports a chunk that could not be resolved or installed.
// reason describes who requested the load.
func ChunkLoad(chunkPath, reason string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindChunkLoad,
		Chunk:  chunkPath,
		Detail: fmt.Sprintf("failed to load chunk %s %s", chunkPath, reason),
		Cause:  cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// External reports a host-provided module that failed to load.
func External(id string, cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindExternal,
		Module: id,
		Detail: fmt.Sprintf("failed to load external module %s", id),
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
