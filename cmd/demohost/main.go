package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/framekit/framekit/internal/config"
	"github.com/framekit/framekit/internal/engine"
	"github.com/framekit/framekit/internal/logsink"
	"github.com/framekit/framekit/internal/metrics"
	"github.com/framekit/framekit/internal/observer"
	"github.com/framekit/framekit/internal/service"
)

const DefaultConfigPath = "config/kernel.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := DefaultConfigPath
	if p := os.Getenv("FRAMEKIT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Warn("config not loaded, using defaults", "path", cfgPath, "err", err)
		cfg = config.Default()
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	logsink.Set(logsink.Slog(logger))

	eng := engine.New(cfg)
	manifest := engine.Manifest{
		Services: []service.Definition{
			service.Def[FrameStats](func() FrameStats { return &frameStats{} }),
		},
		Observers: []observer.Definition{
			observer.Def(func() observer.Observer { return newSpawner(nil) }),
			observer.Def(func() observer.Observer { return &heartbeat{} }),
		},
	}
	if err := eng.Initialize(manifest); err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}
	// The spawner needs the proxy runtime, which only exists after
	// Initialize; hand it over before the first frame.
	if sp, ok := observer.Get[*spawner](eng.Observers()); ok {
		sp.objects = eng.Objects()
	}

	adapter, err := eng.Bind()
	if err != nil {
		return fmt.Errorf("binding host adapter: %w", err)
	}
	if err := adapter.Startup(); err != nil {
		return fmt.Errorf("engine startup: %w", err)
	}

	collector := metrics.NewCollector("framekit")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return frameLoop(ctx, cfg, adapter, eng, collector)
	})

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return serveMetrics(ctx, cfg.Metrics.Addr, collector)
		})
	}

	err = g.Wait()

	if shutdownErr := adapter.Shutdown(); shutdownErr != nil {
		return fmt.Errorf("engine shutdown: %w", shutdownErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// frameLoop drives the per-frame protocol at the configured rate:
// fixed steps, one frame update, one late update per tick.
func frameLoop(ctx context.Context, cfg config.Kernel, adapter *engine.Adapter, eng *engine.Engine, collector *metrics.Collector) error {
	frameInterval := time.Second / time.Duration(cfg.FrameRate)
	fixedDelta := time.Duration(cfg.FixedDeltaMs) * time.Millisecond

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	last := time.Now()
	var accumulator time.Duration

	for {
		select {
		case <-ctx.Done():
			collector.Observe(eng.ProfileSnapshot())
			return ctx.Err()

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			accumulator += dt
			for accumulator >= fixedDelta {
				accumulator -= fixedDelta
				if err := adapter.FixedStep(fixedDelta); err != nil {
					return fmt.Errorf("fixed step: %w", err)
				}
			}
			if err := adapter.FrameUpdate(dt); err != nil {
				return fmt.Errorf("frame update: %w", err)
			}
			if err := adapter.LateFrameUpdate(); err != nil {
				return fmt.Errorf("late frame update: %w", err)
			}

			if eng.Clock().Frame()%60 == 0 {
				collector.Observe(eng.ProfileSnapshot())
			}
		}
	}
}

func serveMetrics(ctx context.Context, addr string, collector *metrics.Collector) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics endpoint listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
