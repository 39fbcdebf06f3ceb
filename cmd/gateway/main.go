package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/displaykit/network/pkg/config"
	"github.com/displaykit/network/pkg/gateway"
	"github.com/displaykit/network/pkg/logging"
	"go.uber.org/zap"
)

func setupLogger() *logging.ColoredLogger {
	logger, err := logging.NewColoredLogger(logging.ComponentGeneral, true)
	if err != nil {
		panic(err)
	}
	return logger
}

// buildLogger creates the configured logger once the config is known.
func buildLogger(cfg *config.Config) (*logging.ColoredLogger, error) {
	if cfg.Logging.OutputFile != "" {
		return logging.NewFileLogger(logging.ComponentGateway, cfg.Logging.OutputFile, cfg.Logging.Colors)
	}
	return logging.NewColoredLogger(logging.ComponentGateway, cfg.Logging.Colors)
}

func main() {
	bootLogger := setupLogger()

	// Load gateway config (flags/env/file)
	cfg := parseGatewayConfig(bootLogger)

	logger, err := buildLogger(cfg)
	if err != nil {
		bootLogger.ComponentError(logging.ComponentGeneral, "failed to initialize logger", zap.Error(err))
		os.Exit(1)
	}

	// Initialize gateway (registry, fanout, routes)
	g, err := gateway.New(logger, cfg)
	if err != nil {
		logger.ComponentError(logging.ComponentGeneral, "failed to initialize gateway", zap.Error(err))
		os.Exit(1)
	}

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		logger.ComponentInfo(logging.ComponentGeneral, "Shutting down display gateway...")
		cancel()
	}()

	// Start blocks until the context is cancelled, then drains connections.
	if err := g.Start(ctx); err != nil {
		logger.ComponentError(logging.ComponentGeneral, "gateway exited with error", zap.Error(err))
		os.Exit(1)
	}
}
