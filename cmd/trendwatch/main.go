package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"TrendWatch/internal/collector"
	"TrendWatch/internal/config"
	"TrendWatch/internal/console"
	"TrendWatch/internal/logger"
	"TrendWatch/internal/metrics"
	"TrendWatch/internal/recorder"
	"TrendWatch/internal/render"
	"TrendWatch/internal/viewmodel"
)

const clearScreen = "\x1b[H\x1b[2J"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trendwatch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Dashboard.Environment); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("main")
	log.Infow("TrendWatch starting", "config", cfgPath, "environment", cfg.Dashboard.Environment)

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.API.Demo {
		fetcher = collector.NewDemoFetcher()
	} else {
		fetcher = collector.NewAnalysisFetcher(cfg.API.BaseURL, cfg.API.Timeout, cfg.Proxy)
	}
	log.Infow("data source", "fetcher", fetcher.Name(), "base_url", cfg.API.BaseURL)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnw("init sqlite recorder failed, using noop", "error", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	if cfg.Metrics.ListenAddr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.ListenAddr,
			Handler:           metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("metrics server", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		log.Infow("metrics listening", "addr", cfg.Metrics.ListenAddr)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vm := viewmodel.New(fetcher, rec, cfg.Dashboard.PollInterval, cfg.DefaultSelection())
	opts := render.Options{Debug: cfg.Development()}
	var outMu sync.Mutex
	vm.Subscribe(func(st viewmodel.State) {
		text := render.View(st.Status, st.Snapshot, st.Selection, opts).Text(cfg.Dashboard.Color)
		outMu.Lock()
		defer outMu.Unlock()
		if cfg.Dashboard.Color {
			fmt.Fprint(os.Stdout, clearScreen)
		}
		fmt.Fprint(os.Stdout, text)
	})

	if err := vm.Start(ctx); err != nil {
		return fmt.Errorf("start view model: %w", err)
	}
	defer vm.Stop()

	con := console.New(vm, rec, lockedWriter{mu: &outMu})
	consoleDone := make(chan error, 1)
	go func() { consoleDone <- con.Run(ctx, os.Stdin) }()

	log.Info("TrendWatch is running. Type help for commands, quit or Ctrl+C to stop.")

	// Wait for shutdown signal or quit
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info("shutdown signal received, stopping...")
	case err := <-consoleDone:
		if err != nil {
			log.Errorw("console stopped", "error", err)
		}
	}

	cancel()
	vm.Stop()
	log.Info("TrendWatch stopped")
	return nil
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// lockedWriter keeps console replies from interleaving with screen redraws.
type lockedWriter struct {
	mu *sync.Mutex
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return os.Stdout.Write(p)
}
