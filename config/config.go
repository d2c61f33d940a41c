// Package config loads runtime settings from an HCL file.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/wippyai/chunk-runtime/chunk"
	"github.com/wippyai/chunk-runtime/errors"
	"github.com/wippyai/chunk-runtime/runtime"
	"github.com/wippyai/chunk-runtime/wasm"
)

// Config is the decoded runtime configuration.
type Config struct {
	Root                 string
	AssetPrefix          string
	ExecutableExtensions []string
	Log                  Log
	WASM                 WASM
	Metrics              Metrics
}

// Log selects the logger level and encoding.
type Log struct {
	Level  string
	Format string
}

// WASM configures the WebAssembly loader.
type WASM struct {
	MemoryLimitPages uint32
	CacheDir         string
}

// Metrics configures the prometheus endpoint. An empty Listen disables it.
type Metrics struct {
	Listen string
}

// fileRoot mirrors the HCL layout of a configuration file.
type fileRoot struct {
	Root                 *string       `hcl:"root,optional"`
	AssetPrefix          *string       `hcl:"asset_prefix,optional"`
	ExecutableExtensions []string      `hcl:"executable_extensions,optional"`
	Log                  *logBlock     `hcl:"log,block"`
	WASM                 *wasmBlock    `hcl:"wasm,block"`
	Metrics              *metricsBlock `hcl:"metrics,block"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

type wasmBlock struct {
	MemoryLimitPages *uint32 `hcl:"memory_limit_pages,optional"`
	CacheDir         *string `hcl:"cache_dir,optional"`
}

type metricsBlock struct {
	Listen string `hcl:"listen"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Root:                 ".",
		ExecutableExtensions: append([]string(nil), chunk.DefaultExecutable...),
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the HCL file at path on top of Default. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read config "+path)
	}
	if err := cfg.decode(path, src); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes HCL source. filename is used in diagnostics only.
func Parse(filename string, src []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(filename, src); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(filename string, src []byte) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, diags, "parse "+filename)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, diags, "decode "+filename)
	}

	if root.Root != nil {
		c.Root = *root.Root
	}
	if root.AssetPrefix != nil {
		c.AssetPrefix = *root.AssetPrefix
	}
	if root.ExecutableExtensions != nil {
		c.ExecutableExtensions = root.ExecutableExtensions
	}
	if b := root.Log; b != nil {
		if b.Level != nil {
			c.Log.Level = *b.Level
		}
		if b.Format != nil {
			c.Log.Format = *b.Format
		}
	}
	if b := root.WASM; b != nil {
		if b.MemoryLimitPages != nil {
			c.WASM.MemoryLimitPages = *b.MemoryLimitPages
		}
		if b.CacheDir != nil {
			c.WASM.CacheDir = *b.CacheDir
		}
	}
	if b := root.Metrics; b != nil {
		c.Metrics.Listen = b.Listen
	}

	return c.validate(filename)
}

func (c *Config) validate(filename string) error {
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.InvalidInput(errors.PhaseConfig,
			fmt.Sprintf("%s: log format must be json or console, got %q", filename, c.Log.Format))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, filename+": log level")
	}
	return nil
}

// RuntimeOptions converts the configuration into runtime options. Source,
// externals, the WebAssembly loader and metrics are left to the caller.
func (c *Config) RuntimeOptions() runtime.Options {
	opts := runtime.DefaultOptions()
	if c.Root != "" {
		opts.Root = c.Root
	}
	opts.AssetPrefix = c.AssetPrefix
	if len(c.ExecutableExtensions) > 0 {
		opts.Executable = c.ExecutableExtensions
	}
	return opts
}

// WASMConfig converts the wasm block into loader settings.
func (c *Config) WASMConfig() *wasm.Config {
	return &wasm.Config{
		MemoryLimitPages: c.WASM.MemoryLimitPages,
		CacheDir:         c.WASM.CacheDir,
	}
}
