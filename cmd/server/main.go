package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"banking_ledger/internal/api"
	"banking_ledger/internal/config"
	"banking_ledger/internal/processor"
	"banking_ledger/internal/repository"
	"banking_ledger/internal/repository/memory"
	"banking_ledger/internal/repository/postgres"
	"banking_ledger/pkg/metrics"
)

const (
	appName = "banking_ledger"
)

func main() {
	cfg := config.Load()
	logger := setupLogger(cfg.LogLevel)
	logger.Info("Starting application",
		slog.String("name", appName),
		slog.String("env", cfg.Env))

	store, closeStore, err := setupStore(cfg, logger)
	if err != nil {
		logger.Error("Store initialization failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	collector := metrics.NewCollector(logger)
	proc := processor.NewTransferProcessor(store, collector, logger)
	handler := api.NewAPIHandler(proc, logger)

	metricsServer := collector.StartMetricsServer(":" + cfg.MetricsPort)
	httpServer := startHTTPServer(handler, logger, ":"+cfg.Port)
	waitForShutdown(logger, httpServer, metricsServer)
	closeStore()
	logger.Info("Application shutdown complete")
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func setupStore(cfg *config.Config, logger *slog.Logger) (repository.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("Using in-memory ledger store")
		return memory.NewStore(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	store, err := postgres.NewStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	logger.Info("Using postgres ledger store")
	return store, pool.Close, nil
}

func startHTTPServer(handler *api.APIHandler, logger *slog.Logger, addr string) *http.Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name": "%s", "status": "ok"}`, appName)
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      api.RequestID(logger, mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(logger *slog.Logger, httpServer, metricsServer *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}
}
