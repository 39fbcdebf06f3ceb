package errors

import (
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"typed not found", NewNotFoundError("display", "lobby-1"), true},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", ErrNotFound), true},
		{"other error", NewTimeoutError("op", "1s"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.expected {
				t.Errorf("IsNotFound() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(NewValidationError("event", "empty", nil)) {
		t.Error("Expected validation error to be detected")
	}
	if IsValidation(NewNotFoundError("display", "")) {
		t.Error("Expected not found error to not be validation")
	}
	if IsValidation(nil) {
		t.Error("Expected nil to not be validation")
	}
}

func TestIsTimeout(t *testing.T) {
	if !IsTimeout(NewTimeoutError("subscribe", "10s")) {
		t.Error("Expected typed timeout to be detected")
	}
	if !IsTimeout(fmt.Errorf("op: %w", ErrTimeout)) {
		t.Error("Expected wrapped sentinel timeout to be detected")
	}
	if IsTimeout(fmt.Errorf("other")) {
		t.Error("Expected plain error to not be timeout")
	}
}

func TestIsRateLimit(t *testing.T) {
	if !IsRateLimit(NewRateLimitError(10, 5)) {
		t.Error("Expected typed rate limit to be detected")
	}
	if !IsRateLimit(fmt.Errorf("req: %w", ErrTooManyRequests)) {
		t.Error("Expected wrapped sentinel to be detected")
	}
}

func TestIsServiceUnavailable(t *testing.T) {
	if !IsServiceUnavailable(NewServiceError("gateway", "down", 503, nil)) {
		t.Error("Expected typed service error to be detected")
	}
	if !IsServiceUnavailable(fmt.Errorf("dial: %w", ErrServiceUnavailable)) {
		t.Error("Expected wrapped sentinel to be detected")
	}
}

func TestIsInternal(t *testing.T) {
	if !IsInternal(NewInternalError("boom", nil)) {
		t.Error("Expected typed internal error to be detected")
	}
	if !IsInternal(fmt.Errorf("x: %w", ErrInternal)) {
		t.Error("Expected wrapped sentinel to be detected")
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"timeout", NewTimeoutError("op", "1s"), true},
		{"service unavailable", NewServiceError("gateway", "down", 503, nil), true},
		{"rate limit", NewRateLimitError(10, 5), true},
		{"not found", NewNotFoundError("display", "x"), false},
		{"validation", NewValidationError("event", "empty", nil), false},
		{"plain", fmt.Errorf("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRetry(tt.err); got != tt.expected {
				t.Errorf("ShouldRetry() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, CodeOK},
		{"typed", NewValidationError("event", "empty", nil), CodeValidation},
		{"sentinel not found", fmt.Errorf("x: %w", ErrNotFound), CodeNotFound},
		{"sentinel timeout", fmt.Errorf("x: %w", ErrTimeout), CodeTimeout},
		{"sentinel rate limit", fmt.Errorf("x: %w", ErrTooManyRequests), CodeRateLimit},
		{"plain", fmt.Errorf("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	if got := GetErrorMessage(nil); got != "" {
		t.Errorf("Expected empty message for nil, got %q", got)
	}
	if got := GetErrorMessage(NewNotFoundError("display", "lobby-1")); got != "display not found" {
		t.Errorf("Expected typed message, got %q", got)
	}
	if got := GetErrorMessage(fmt.Errorf("boom")); got != "boom" {
		t.Errorf("Expected plain message, got %q", got)
	}
}

func TestCause(t *testing.T) {
	root := fmt.Errorf("connection refused")
	level1 := Wrap(root, "failed to publish")
	level2 := Wrap(level1, "notify request failed")

	if got := Cause(level2); got != root {
		t.Errorf("Expected root cause, got %v", got)
	}

	plain := fmt.Errorf("no chain")
	if got := Cause(plain); got != plain {
		t.Errorf("Expected plain error returned as-is, got %v", got)
	}
}
