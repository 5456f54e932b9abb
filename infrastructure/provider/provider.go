// Package provider implements embedding providers behind a single Embedder
// interface: a retrying OpenAI-compatible client for production and a
// deterministic in-process embedder for tests.
package provider

import (
	"context"
	"fmt"
)

// Embedder turns texts into vectors. Implementations own their retry policy;
// a returned error means the provider is exhausted for now.
type Embedder interface {
	// Embed generates one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// Dimension returns the width of vectors this embedder emits.
	Dimension() int
}

// ProviderError wraps a provider failure with the operation and HTTP status.
type ProviderError struct {
	Operation  string
	StatusCode int
	Message    string
	cause      error
}

// NewProviderError creates a ProviderError.
func NewProviderError(operation string, statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    message,
		cause:      cause,
	}
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.cause
}
