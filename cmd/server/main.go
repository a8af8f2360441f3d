package main

import (
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/denis333rus/censornet/internal/ai"
	"github.com/denis333rus/censornet/internal/infrastructure/config"
	"github.com/denis333rus/censornet/internal/infrastructure/logging"
	"github.com/denis333rus/censornet/internal/server"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Optional YAML config overlay")
	flag.Parse()

	// Load .env if present, then environment config
	_ = godotenv.Load()
	cfg := config.LoadOrDefault()

	fallbackResults, err := config.ApplyFile(cfg, *configPath)
	if err != nil {
		log.Fatalf("Failed to apply config file: %v", err)
	}
	ai.SetFallbackSearchResults(fallbackResults)

	logger := logging.MustNew(cfg.Logging.Level, cfg.Logging.Development)
	defer logger.Sync()

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		logger.Info("Shutting down gracefully")
		if err := srv.Close(); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		logger.Fatal("Server error", zap.Error(err))
	}
}
