package wasm

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.uber.org/zap"
)

// Config holds configuration for loader creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// EnableThreads enables the WebAssembly threads proposal (experimental).
	EnableThreads bool

	// CacheDir enables wazero's on-disk compilation cache.
	CacheDir string
}

// Loader compiles WebAssembly files and instantiates them on one wazero runtime.
type Loader struct {
	runtime  wazero.Runtime
	cache    wazero.CompilationCache
	compiled map[string]wazero.CompiledModule
	mu       sync.Mutex
}

// NewLoader creates a loader owning a new wazero runtime.
func NewLoader(ctx context.Context, cfg *Config) (*Loader, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	var cache wazero.CompilationCache

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.EnableThreads {
			runtimeCfg = runtimeCfg.WithCoreFeatures(api.CoreFeaturesV2 | experimental.CoreFeaturesThreads)
		}
		if cfg.CacheDir != "" {
			c, err := wazero.NewCompilationCacheWithDir(cfg.CacheDir)
			if err != nil {
				return nil, fmt.Errorf("compilation cache: %w", err)
			}
			cache = c
			runtimeCfg = runtimeCfg.WithCompilationCache(c)
		}
	}

	return &Loader{
		runtime:  wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		cache:    cache,
		compiled: make(map[string]wazero.CompiledModule),
	}, nil
}

// Runtime returns the underlying wazero runtime for host module registration.
func (l *Loader) Runtime() wazero.Runtime {
	return l.runtime
}

// Compile reads and compiles the module at path. Results are cached per path.
func (l *Loader) Compile(ctx context.Context, path string) (wazero.CompiledModule, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := l.compiled[path]; ok {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	compiled, err := l.runtime.CompileModule(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}

	Logger().Debug("compiled wasm module",
		zap.String("path", path),
		zap.Int("size", len(data)),
		zap.Int("exports", len(compiled.ExportedFunctions())))

	l.compiled[path] = compiled
	return compiled, nil
}

// Instantiate compiles (or reuses) the module at path and instantiates it.
// Instances are anonymous so a path can be instantiated more than once.
func (l *Loader) Instantiate(ctx context.Context, path string) (api.Module, error) {
	return l.InstantiateWithConfig(ctx, path, wazero.NewModuleConfig().WithName(""))
}

// InstantiateWithConfig is Instantiate with a caller-provided module config.
func (l *Loader) InstantiateWithConfig(ctx context.Context, path string, cfg wazero.ModuleConfig) (api.Module, error) {
	compiled, err := l.Compile(ctx, path)
	if err != nil {
		return nil, err
	}

	mod, err := l.runtime.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", path, err)
	}
	return mod, nil
}

// Close releases the wazero runtime, every instance and the compilation cache.
func (l *Loader) Close(ctx context.Context) error {
	l.mu.Lock()
	l.compiled = make(map[string]wazero.CompiledModule)
	l.mu.Unlock()

	err := l.runtime.Close(ctx)
	if l.cache != nil {
		if cerr := l.cache.Close(ctx); err == nil {
			err = cerr
		}
	}
	return err
}
