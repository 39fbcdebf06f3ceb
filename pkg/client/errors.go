package client

import "errors"

// Common client errors
var (
	// ErrInvalidConfig indicates the client configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStreamClosed indicates the gateway ended the event stream. A
	// Subscribe that gives up reconnecting wraps this when the final
	// failure was a clean close rather than a transport error.
	ErrStreamClosed = errors.New("event stream closed by gateway")
)
