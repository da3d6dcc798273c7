package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/kapal-registry/internal/api"
	"github.com/mcoot/kapal-registry/internal/config"
	"github.com/mcoot/kapal-registry/internal/factory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create application factory
	app, err := factory.New(ctx, factory.ConfigFromEnv(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("storage ready", slog.String("type", cfg.StorageType))

	apiConfig := api.DefaultServerConfig()
	apiConfig.Addr = cfg.HTTPAddr
	apiServer := api.NewServer(app.APIHandler(), apiConfig, logger)

	realtimeConfig := api.RealtimeServerConfig()
	realtimeConfig.Addr = cfg.RealtimeAddr
	realtimeServer := api.NewServer(app.RealtimeHandler(), realtimeConfig, logger)

	// Start servers in goroutines
	errCh := make(chan error, 2)
	go func() {
		errCh <- apiServer.Start()
	}()
	go func() {
		errCh <- realtimeServer.Start()
	}()

	logger.Info("server started",
		slog.String("api_addr", apiServer.Addr()),
		slog.String("realtime_addr", realtimeServer.Addr()))

	exitCode := 0

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	// In-flight API requests finish and broadcast before the hub closes.
	// Closing the hub ends every subscriber stream so the realtime listener can drain.
	if err := apiServer.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		exitCode = 1
	}
	app.Hub.Close()
	if err := realtimeServer.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		exitCode = 1
	}
	if err := app.Close(); err != nil {
		logger.Error("storage close error", slog.String("error", err.Error()))
		exitCode = 1
	}

	logger.Info("server stopped")
	os.Exit(exitCode)
}
