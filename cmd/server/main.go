package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jimdaga/team-pulse/internal/app"
	"github.com/jimdaga/team-pulse/internal/config"
	"github.com/jimdaga/team-pulse/internal/health"
	"github.com/jimdaga/team-pulse/internal/worker"

	_ "time/tzdata"
)

func main() {
	cfg := config.Load()
	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	a, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		logger.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer stopScheduler()

	// Standalone worker mode: no HTTP listener
	if len(os.Args) > 1 && os.Args[1] == "worker" {
		if err := worker.Run(cfg, a.Dispatcher); err != nil {
			logger.Error("Worker stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	stopWorker, err := worker.Start(cfg, a.Dispatcher)
	if err != nil {
		logger.Error("Failed to start worker", "error", err)
		os.Exit(1)
	}
	defer stopWorker()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Handler)
	mux.HandleFunc("GET /ready", health.ReadyHandler(a.Checks(), app.ReadyTimeout))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting server", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}
