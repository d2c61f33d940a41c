package runtime

import (
	"net/url"
	"path/filepath"

	"github.com/wippyai/chunk-runtime/chunk"
	"github.com/wippyai/chunk-runtime/errors"
	"github.com/wippyai/chunk-runtime/metrics"
	"github.com/wippyai/chunk-runtime/module"
	"github.com/wippyai/chunk-runtime/wasm"
)

// Options configures a Runtime.
type Options struct {
	// Source resolves chunk paths to factory tables. Defaults to an empty Table.
	Source Source

	// Externals serves host-provided modules.
	Externals External

	// WASM compiles and instantiates WebAssembly chunks. WebAssembly helpers
	// fail as unsupported when nil.
	WASM *wasm.Loader

	// Metrics is optional instrumentation.
	Metrics *metrics.Metrics

	// Root is the directory chunk paths are relative to.
	Root string

	// AssetPrefix is stripped from asset paths before resolving them.
	AssetPrefix string

	// Executable lists the extensions of chunks carrying factories.
	Executable []string
}

// DefaultOptions returns the default runtime options.
func DefaultOptions() Options {
	return Options{
		Root:       ".",
		Executable: chunk.DefaultExecutable,
	}
}

// Runtime owns the factory table, the module cache and the chunk caches of
// one program. Independent runtimes share no state.
type Runtime struct {
	source     Source
	externals  External
	wasm       *wasm.Loader
	metrics    *metrics.Metrics
	factories  *Factories
	modules    *module.Cache
	loaded     *chunk.Set
	chunks     *chunk.Cache
	classifier *chunk.Classifier
	rootURL    *url.URL
	root       string
	prefix     string
}

// New creates a runtime. The root is made absolute.
func New(opts Options) (*Runtime, error) {
	if opts.Root == "" {
		opts.Root = "."
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "resolve runtime root")
	}

	source := opts.Source
	if source == nil {
		source = NewTable()
	}

	return &Runtime{
		source:     source,
		externals:  opts.Externals,
		wasm:       opts.WASM,
		metrics:    opts.Metrics,
		factories:  NewFactories(),
		modules:    module.NewCache(),
		loaded:     chunk.NewSet(),
		chunks:     chunk.NewCache(),
		classifier: chunk.NewClassifier(opts.Executable...),
		rootURL:    rootURL(root),
		root:       root,
		prefix:     opts.AssetPrefix,
	}, nil
}

func rootURL(root string) *url.URL {
	p := filepath.ToSlash(root)
	if p == "" || p[len(p)-1] != '/' {
		p += "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return &url.URL{Scheme: "file", Path: p}
}

// Root returns the absolute runtime root.
func (r *Runtime) Root() string { return r.root }

// Factories returns the factory table.
func (r *Runtime) Factories() *Factories { return r.factories }

// Cache returns the module cache.
func (r *Runtime) Cache() *module.Cache { return r.modules }

// Classifier returns the chunk classifier.
func (r *Runtime) Classifier() *chunk.Classifier { return r.classifier }

// Evict removes the record of id so it is instantiated again on next use.
// The factory is kept; HMR collaborators replace it through Factories.
func (r *Runtime) Evict(id string) bool {
	return r.modules.Evict(id)
}
