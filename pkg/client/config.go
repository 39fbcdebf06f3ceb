package client

import "time"

// ClientConfig represents configuration for display gateway clients
type ClientConfig struct {
	GatewayURL     string        `json:"gateway_url"`     // Gateway base URL (e.g., "http://localhost:8080")
	ConnectTimeout time.Duration `json:"connect_timeout"` // Timeout for request/response calls
	RetryAttempts  int           `json:"retry_attempts"`  // Consecutive reconnect attempts before Subscribe gives up; 0 retries forever
	RetryDelay     time.Duration `json:"retry_delay"`     // Pause between reconnect attempts
	QuietMode      bool          `json:"quiet_mode"`      // Suppress debug/info logs
}

// DefaultClientConfig returns a default client configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		GatewayURL:     "http://localhost:8080",
		ConnectTimeout: time.Second * 30,
		RetryAttempts:  3,
		RetryDelay:     time.Second * 5,
		QuietMode:      false,
	}
}
