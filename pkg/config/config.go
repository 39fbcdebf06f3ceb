package config

import "time"

// Config represents the main configuration for a display gateway
type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
	Notify  NotifyConfig  `yaml:"notify"`
	Logging LoggingConfig `yaml:"logging"`
}

// GatewayConfig contains the HTTP listener configuration
type GatewayConfig struct {
	ListenAddr         string        `yaml:"listen_addr"`           // Address to listen on (e.g., ":8080")
	CORSEnabled        bool          `yaml:"cors_enabled"`          // Allow cross-origin requests
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"` // Publish requests per client IP per minute
	RateLimitBurst     int           `yaml:"rate_limit_burst"`      // Publish burst allowance per client IP
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`      // Grace period for in-flight requests on shutdown
}

// NotifyConfig contains connection-handling configuration
type NotifyConfig struct {
	KeepAliveInterval time.Duration `yaml:"keepalive_interval"` // Interval between keep-alive pings on idle connections
	WriteTimeout      time.Duration `yaml:"write_timeout"`      // Per-write deadline on WebSocket connections
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Colors     bool   `yaml:"colors"`      // ANSI colors in log output
	OutputFile string `yaml:"output_file"` // Empty for stdout
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			ListenAddr:         ":8080",
			CORSEnabled:        true,
			RateLimitPerMinute: 120,
			RateLimitBurst:     30,
			ShutdownTimeout:    10 * time.Second,
		},
		Notify: NotifyConfig{
			// Below common proxy idle timeouts so intermediaries keep
			// quiet streams open.
			KeepAliveInterval: 25 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		Logging: LoggingConfig{
			Colors: true,
		},
	}
}
