// Package mcphost connects the agent to an MCP server over stdio and exposes
// it as the agent's tool host.
package mcphost

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/contentmcp/agent/agent"
)

// systemPromptName is the prompt the content server publishes its operating
// instructions under.
const systemPromptName = "system_prompt"

// Client wraps an MCP client session. It implements agent.ToolHost.
type Client struct {
	mcpClient *mcp.Client
	session   *mcp.ClientSession
	timeout   time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

type clientConfig struct {
	timeout time.Duration
}

// WithTimeout sets the timeout for tool execution.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// NewStdioClient starts the server command as a subprocess and completes the
// MCP initialization handshake over its stdio.
func NewStdioClient(ctx context.Context, command string, args []string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mcpClient := mcp.NewClient(&mcp.Implementation{
		Name:    "contentagent",
		Version: "0.1.0",
	}, nil)

	cmd := exec.Command(command, args...)
	transport := &mcp.CommandTransport{
		Command: cmd,
	}

	session, err := mcpClient.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to MCP server: %w", err)
	}

	return &Client{
		mcpClient: mcpClient,
		session:   session,
		timeout:   cfg.timeout,
	}, nil
}

// SystemPrompt fetches the server's system instructions. A server that does
// not publish the prompt yields "" without an error; the agent then runs with
// no system instructions.
func (c *Client) SystemPrompt(ctx context.Context) (string, error) {
	result, err := c.session.GetPrompt(ctx, &mcp.GetPromptParams{Name: systemPromptName})
	if err != nil {
		return "", fmt.Errorf("getting prompt %q: %w", systemPromptName, err)
	}
	if result == nil || len(result.Messages) == 0 {
		return "", nil
	}
	if text, ok := result.Messages[0].Content.(*mcp.TextContent); ok {
		return text.Text, nil
	}
	return "", nil
}

// ListTools returns the server's tool catalog as descriptors.
func (c *Client) ListTools(ctx context.Context) ([]agent.ToolDescriptor, error) {
	result, err := c.session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("listing MCP tools: %w", err)
	}

	descriptors := make([]agent.ToolDescriptor, 0, len(result.Tools))
	for _, tool := range result.Tools {
		descriptors = append(descriptors, agent.ToolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: convertSchema(tool.InputSchema),
		})
	}
	return descriptors, nil
}

// CallTool invokes a tool and returns its textual result. A result flagged
// as an error by the server comes back as an error carrying the text.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", err
	}

	combined := extractText(result.Content)
	if result.IsError {
		return "", fmt.Errorf("%s", combined)
	}
	return combined, nil
}

// Close closes the session, terminating the server subprocess.
func (c *Client) Close() error {
	return c.session.Close()
}

// convertSchema normalizes the server-advertised input schema. Anything that
// does not survive the round trip degrades to a bare object schema.
func convertSchema(input any) *jsonschema.Schema {
	fallback := &jsonschema.Schema{Type: "object"}
	if input == nil {
		return fallback
	}

	encoded, err := json.Marshal(input)
	if err != nil {
		return fallback
	}

	var schema jsonschema.Schema
	if err := json.Unmarshal(encoded, &schema); err != nil {
		return fallback
	}
	return &schema
}

// extractText joins the textual payloads of a tool result. Non-text content
// is represented by a descriptive marker.
func extractText(content []mcp.Content) string {
	var parts []string
	for _, c := range content {
		switch item := c.(type) {
		case *mcp.TextContent:
			parts = append(parts, item.Text)
		case *mcp.ImageContent:
			parts = append(parts, fmt.Sprintf("[Image: %s, %d bytes]", item.MIMEType, len(item.Data)))
		case *mcp.EmbeddedResource:
			if item.Resource != nil {
				parts = append(parts, fmt.Sprintf("[Resource: %s]", item.Resource.URI))
			} else {
				parts = append(parts, "[Resource: embedded]")
			}
		}
	}
	return strings.Join(parts, "\n")
}
