// Package provider defines the interface for LLM providers.
package provider

import "context"

// Provider is the core abstraction for LLM providers.
// All provider implementations must satisfy this interface.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "local").
	Name() string

	// Endpoint returns the base URL the provider talks to.
	// It is echoed in connection diagnostics.
	Endpoint() string

	// Call executes a single chat completion request.
	Call(ctx context.Context, req *Request) (*Response, error)
}
