package agent

import (
	"context"

	"github.com/invopop/jsonschema"
)

// ToolDescriptor describes a callable tool advertised by the tool host.
// Descriptors are fetched per conversation turn and never persisted.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// ToolHost is the RPC link to the external process exposing callable tools.
// Transport and encoding are opaque to the agent.
type ToolHost interface {
	// SystemPrompt returns the host-provided system instructions,
	// or "" when the host does not publish any.
	SystemPrompt(ctx context.Context) (string, error)

	// ListTools returns the host's tool catalog.
	ListTools(ctx context.Context) ([]ToolDescriptor, error)

	// CallTool invokes a tool by name and returns its textual result.
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}
