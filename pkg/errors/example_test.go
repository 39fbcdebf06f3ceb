package errors_test

import (
	"fmt"
	"net/http/httptest"

	"github.com/displaykit/network/pkg/errors"
)

// Example demonstrates creating and using validation errors.
func ExampleNewValidationError() {
	err := errors.NewValidationError("event", "event name must not be empty", "")
	fmt.Println(err.Error())
	fmt.Println("Code:", err.Code())
	// Output:
	// validation error: event: event name must not be empty
	// Code: VALIDATION_ERROR
}

// Example demonstrates creating and using not found errors.
func ExampleNewNotFoundError() {
	err := errors.NewNotFoundError("display", "lobby-1")
	fmt.Println(err.Error())
	fmt.Println("HTTP Status:", errors.StatusCode(err))
	// Output:
	// display with ID 'lobby-1' not found
	// HTTP Status: 404
}

// Example demonstrates wrapping errors with context.
func ExampleWrap() {
	originalErr := errors.NewNotFoundError("display", "lobby-1")
	wrappedErr := errors.Wrap(originalErr, "failed to resolve display status")

	fmt.Println(wrappedErr.Error())
	fmt.Println("Is NotFound:", errors.IsNotFound(wrappedErr))
	// Output:
	// failed to resolve display status: display with ID 'lobby-1' not found
	// Is NotFound: true
}

// Example demonstrates checking if an error should be retried.
func ExampleShouldRetry() {
	timeoutErr := errors.NewTimeoutError("subscribe", "10s")
	notFoundErr := errors.NewNotFoundError("display", "lobby-1")

	fmt.Println("Timeout should retry:", errors.ShouldRetry(timeoutErr))
	fmt.Println("Not found should retry:", errors.ShouldRetry(notFoundErr))
	// Output:
	// Timeout should retry: true
	// Not found should retry: false
}

// Example demonstrates converting errors to HTTP responses.
func ExampleToHTTPError() {
	err := errors.NewNotFoundError("display", "lobby-1")
	httpErr := errors.ToHTTPError(err, "trace-abc-123")

	fmt.Println("Status:", httpErr.Status)
	fmt.Println("Code:", httpErr.Code)
	fmt.Println("Message:", httpErr.Message)
	fmt.Println("Resource:", httpErr.Details["resource"])
	// Output:
	// Status: 404
	// Code: NOT_FOUND
	// Message: display not found
	// Resource: display
}

// Example demonstrates writing HTTP error responses.
func ExampleWriteHTTPError() {
	err := errors.NewValidationError("event", "event name must not be empty", "")

	// Create a test response recorder
	w := httptest.NewRecorder()

	// Write the error response
	errors.WriteHTTPError(w, err, "trace-xyz")

	fmt.Println("Status Code:", w.Code)
	fmt.Println("Content-Type:", w.Header().Get("Content-Type"))
	// Output:
	// Status Code: 400
	// Content-Type: application/json
}

// Example demonstrates creating service errors.
func ExampleNewServiceError() {
	err := errors.NewServiceError("gateway", "gateway unavailable", 503, nil)

	fmt.Println(err.Error())
	fmt.Println("Should Retry:", errors.ShouldRetry(err))
	// Output:
	// gateway unavailable
	// Should Retry: true
}

// Example demonstrates getting the root cause of an error chain.
func ExampleCause() {
	root := fmt.Errorf("connection refused")
	level1 := errors.Wrap(root, "failed to publish event")
	level2 := errors.Wrap(level1, "notify request failed")

	cause := errors.Cause(level2)
	fmt.Println(cause.Error())
	// Output:
	// connection refused
}
