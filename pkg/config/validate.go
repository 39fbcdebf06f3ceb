package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "gateway.listen_addr"
	Message string // e.g., "must not be empty"
	Hint    string // e.g., "expected host:port"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate performs comprehensive validation of the entire config.
// It aggregates all errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateGateway()...)
	errs = append(errs, c.validateNotify()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateGateway() []error {
	var errs []error
	gc := c.Gateway

	if gc.ListenAddr == "" {
		errs = append(errs, ValidationError{
			Path:    "gateway.listen_addr",
			Message: "must not be empty",
			Hint:    "expected host:port, e.g. \":8080\"",
		})
	} else if err := validateListenAddr(gc.ListenAddr); err != nil {
		errs = append(errs, ValidationError{
			Path:    "gateway.listen_addr",
			Message: err.Error(),
			Hint:    "expected host:port, e.g. \":8080\"",
		})
	}

	if gc.RateLimitPerMinute <= 0 {
		errs = append(errs, ValidationError{
			Path:    "gateway.rate_limit_per_minute",
			Message: fmt.Sprintf("must be > 0; got %d", gc.RateLimitPerMinute),
		})
	}

	if gc.RateLimitBurst <= 0 {
		errs = append(errs, ValidationError{
			Path:    "gateway.rate_limit_burst",
			Message: fmt.Sprintf("must be > 0; got %d", gc.RateLimitBurst),
		})
	}

	if gc.ShutdownTimeout <= 0 {
		errs = append(errs, ValidationError{
			Path:    "gateway.shutdown_timeout",
			Message: "must be > 0",
			Hint:    "e.g. 10s",
		})
	}

	return errs
}

func (c *Config) validateNotify() []error {
	var errs []error
	nc := c.Notify

	if nc.KeepAliveInterval <= 0 {
		errs = append(errs, ValidationError{
			Path:    "notify.keepalive_interval",
			Message: "must be > 0",
			Hint:    "keep it below intermediary idle timeouts, e.g. 25s",
		})
	}

	if nc.WriteTimeout <= 0 {
		errs = append(errs, ValidationError{
			Path:    "notify.write_timeout",
			Message: "must be > 0",
			Hint:    "e.g. 10s",
		})
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error
	log := c.Logging

	if log.OutputFile != "" {
		dir := filepath.Dir(log.OutputFile)
		if dir != "" && dir != "." {
			if err := validateDirWritable(dir); err != nil {
				errs = append(errs, ValidationError{
					Path:    "logging.output_file",
					Message: fmt.Sprintf("parent directory not writable: %v", err),
				})
			}
		}
	}

	return errs
}

// Helper validation functions

func validateListenAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address: %v", err)
	}
	// An empty host means all interfaces; that is fine for a listener.
	_ = host

	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 1 || portNum > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535; got %q", port)
	}

	return nil
}

func validateDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access directory: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}

	// Try to write a test file
	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte(""), 0644); err != nil {
		return fmt.Errorf("directory not writable: %v", err)
	}
	os.Remove(testFile)

	return nil
}
