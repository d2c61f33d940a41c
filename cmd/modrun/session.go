package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wippyai/chunk-runtime/config"
	"github.com/wippyai/chunk-runtime/metrics"
	"github.com/wippyai/chunk-runtime/runtime"
	"github.com/wippyai/chunk-runtime/wasm"
)

// session bundles a configured runtime with the resources it owns.
type session struct {
	rt      *runtime.Runtime
	wasm    *wasm.Loader
	log     *zap.Logger
	metrics *http.Server
	closed  bool
}

var openSession = newSession

func newSession(configFile, root string) (*session, error) {
	ctx := context.Background()

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if root != "" {
		cfg.Root = root
	}

	log, err := cfg.Log.Logger()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	runtime.SetLogger(log.Named("runtime"))
	wasm.SetLogger(log.Named("wasm"))

	loader, err := wasm.NewLoader(ctx, cfg.WASMConfig())
	if err != nil {
		return nil, fmt.Errorf("create wasm loader: %w", err)
	}

	s := &session{wasm: loader, log: log}

	opts := cfg.RuntimeOptions()
	opts.Source = runtime.NewPluginSource(opts.Root)
	opts.WASM = loader

	if cfg.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		opts.Metrics = metrics.New(reg)
		s.serveMetrics(cfg.Metrics.Listen, reg)
	}

	rt, err := runtime.New(opts)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create runtime: %w", err)
	}
	s.rt = rt

	log.Debug("runtime ready",
		zap.String("root", rt.Root()),
		zap.Strings("executable", cfg.ExecutableExtensions))
	return s, nil
}

func (s *session) serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("metrics listener stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	s.log.Info("serving metrics", zap.String("addr", addr))
}

// Close releases the wasm runtime and stops the metrics listener.
func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.metrics != nil {
		_ = s.metrics.Shutdown(ctx)
	}
	if s.wasm != nil {
		_ = s.wasm.Close(ctx)
	}
	_ = s.log.Sync()
	s.closed = true
}
