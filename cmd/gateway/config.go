package main

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/displaykit/network/pkg/config"
	"github.com/displaykit/network/pkg/logging"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getEnvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// loadEnvFiles loads environment variables from .env files before any
// are read. .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// parseGatewayConfig builds the gateway configuration from flags,
// environment variables and an optional YAML file.
// Priority: flags > env > file > defaults.
func parseGatewayConfig(logger *logging.ColoredLogger) *config.Config {
	loadEnvFiles()

	configPath := flag.String("config", getEnvDefault("GATEWAY_CONFIG", ""), "Path to YAML config file")
	addr := flag.String("addr", getEnvDefault("GATEWAY_ADDR", ""), "HTTP listen address (e.g., :8080)")
	logFile := flag.String("log-file", getEnvDefault("GATEWAY_LOG_FILE", ""), "Log output file (default stdout)")

	// Do not call flag.Parse() elsewhere to avoid double-parsing
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.ComponentError(logging.ComponentGeneral, "Failed to load config file",
				zap.String("path", *configPath),
				zap.Error(err))
			os.Exit(1)
		}
		cfg = loaded
	}

	if *addr != "" {
		cfg.Gateway.ListenAddr = *addr
	}
	if *logFile != "" {
		cfg.Logging.OutputFile = *logFile
	}
	cfg.Gateway.CORSEnabled = getEnvBoolDefault("GATEWAY_CORS", cfg.Gateway.CORSEnabled)
	cfg.Gateway.RateLimitPerMinute = getEnvIntDefault("GATEWAY_RATE_LIMIT_PER_MINUTE", cfg.Gateway.RateLimitPerMinute)
	cfg.Logging.Colors = getEnvBoolDefault("GATEWAY_LOG_COLORS", cfg.Logging.Colors)

	// Report every problem at once so a broken file is fixed in one pass.
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			logger.ComponentError(logging.ComponentGeneral, "Invalid configuration", zap.Error(err))
		}
		os.Exit(1)
	}

	logger.ComponentInfo(logging.ComponentGeneral, "Loaded gateway configuration",
		zap.String("addr", cfg.Gateway.ListenAddr),
		zap.Bool("cors", cfg.Gateway.CORSEnabled),
		zap.Int("rate_limit_per_minute", cfg.Gateway.RateLimitPerMinute),
	)

	return cfg
}
