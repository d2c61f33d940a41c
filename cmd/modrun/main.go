package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/chunk-runtime/chunk"
	"github.com/wippyai/chunk-runtime/module"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to HCL runtime config")
		root        = flag.String("root", "", "Directory chunk paths are relative to (overrides config)")
		chunkPath   = flag.String("chunk", "", "Entry chunk path, relative to root")
		moduleID    = flag.String("module", "", "Module id to run as the runtime entry")
		preload     = flag.String("load", "", "Extra chunks to load in the background (comma-separated)")
		interactive = flag.Bool("i", false, "Interactive module browser")
	)
	flag.Parse()

	if *chunkPath == "" || (*moduleID == "" && !*interactive) {
		fmt.Fprintln(os.Stderr, "Usage: modrun -chunk <path> -module <id> [-config runtime.hcl] [-root dir] [-load a,b]")
		fmt.Fprintln(os.Stderr, "       modrun -chunk <path> -i  (interactive mode)")
		os.Exit(1)
	}

	if err := execute(*configFile, *root, *chunkPath, *moduleID, splitList(*preload), *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute owns the session so Close runs before main decides the exit code.
func execute(configFile, root, chunkPath, moduleID string, preload []string, interactive bool) error {
	s, err := openSession(configFile, root)
	if err != nil {
		return err
	}
	defer s.Close()

	if interactive {
		return runInteractive(s, chunkPath, preload)
	}
	return run(s, chunkPath, moduleID, preload)
}

func run(s *session, chunkPath, moduleID string, preload []string) error {
	ctx := context.Background()

	pending := s.preload(ctx, preload)

	if err := s.rt.LoadChunk(ctx, chunkPath, module.RuntimeEntry(chunkPath)); err != nil {
		return fmt.Errorf("load entry chunk: %w", err)
	}

	fmt.Printf("Chunk: %s\n", chunkPath)
	fmt.Printf("Factories: %d\n", s.rt.Factories().Len())

	m, err := s.rt.GetOrInstantiateRuntimeModule(ctx, moduleID, chunkPath)
	if err != nil {
		return fmt.Errorf("run %s: %w", moduleID, err)
	}
	if m.Async() {
		if err := m.Wait(ctx); err != nil {
			return fmt.Errorf("await %s: %w", moduleID, err)
		}
	}

	fmt.Printf("\nExports of %s:\n%s\n", moduleID, formatExports(m.Exports()))

	for path, res := range pending {
		if _, err := res.Wait(ctx); err != nil {
			s.log.Warn("background chunk load failed", zap.String("chunk", path), zap.Error(err))
		}
	}
	return nil
}

func (s *session) preload(ctx context.Context, paths []string) map[string]*chunk.Result {
	pending := make(map[string]*chunk.Result, len(paths))
	for _, p := range paths {
		pending[p] = s.rt.LoadChunkAsync(ctx, module.RuntimeEntry(p), p)
	}
	return pending
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
