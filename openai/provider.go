// Package openai provides a chat-completions provider for any
// OpenAI-compatible endpoint, including local servers such as LM Studio
// and Ollama.
package openai

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/contentmcp/agent/provider"
)

// Provider implements provider.Provider over the chat-completions API.
type Provider struct {
	name   string
	client *client
}

// Option configures the provider.
type Option func(*providerConfig)

type providerConfig struct {
	name       string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	skipVerify bool
}

// WithName sets the provider's registry name. Defaults to "openai".
func WithName(name string) Option {
	return func(c *providerConfig) {
		c.name = name
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *providerConfig) {
		c.apiKey = key
	}
}

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) Option {
	return func(c *providerConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *providerConfig) {
		c.httpClient = client
	}
}

// WithInsecureTLS disables certificate verification. Intended for local
// endpoints serving self-signed certificates; never use it against a remote
// API.
func WithInsecureTLS() Option {
	return func(c *providerConfig) {
		c.skipVerify = true
	}
}

// New creates a new provider.
func New(opts ...Option) (*Provider, error) {
	cfg := &providerConfig{name: "openai"}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.apiKey == "" {
		return nil, &APIError{
			Message: "API key required: set OPENAI_API_KEY or use WithAPIKey",
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil && cfg.skipVerify {
		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	return &Provider{
		name:   cfg.name,
		client: newClient(cfg.apiKey, cfg.baseURL, httpClient),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Endpoint returns the base URL requests are sent to.
func (p *Provider) Endpoint() string {
	return p.client.baseURL
}

// Call implements provider.Provider.
func (p *Provider) Call(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	apiReq := buildRequest(req)

	apiResp, raw, err := p.client.chatCompletion(ctx, apiReq)
	if err != nil {
		return nil, err
	}

	return convertResponse(apiResp, raw)
}

// buildRequest converts a provider.Request to the wire request shape.
// tool_choice is set to "auto" whenever any tools are offered, leaving the
// decision to call them with the model.
func buildRequest(req *provider.Request) *chatCompletionRequest {
	apiReq := &chatCompletionRequest{
		Model:       req.Model,
		Messages:    make([]message, 0, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	for _, msg := range req.Messages {
		apiMsg := message{
			Role:    string(msg.Role),
			Content: msg.Content,
		}

		if msg.ToolID != "" {
			apiMsg.ToolCallID = msg.ToolID
		}

		if len(msg.ToolCalls) > 0 {
			apiMsg.ToolCalls = make([]toolCall, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				apiMsg.ToolCalls[i] = toolCall{
					ID:   tc.ID,
					Type: "function",
					Function: functionCall{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				}
			}
		}

		apiReq.Messages = append(apiReq.Messages, apiMsg)
	}

	for _, tool := range req.Tools {
		apiReq.Tools = append(apiReq.Tools, toolDef{
			Type: "function",
			Function: functionDef{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}
	if len(apiReq.Tools) > 0 {
		apiReq.ToolChoice = "auto"
	}

	return apiReq
}

// convertResponse converts a wire response to a provider.Response,
// rejecting shapes with no usable choice or message payload.
func convertResponse(resp *chatCompletionResponse, raw []byte) (*provider.Response, error) {
	if len(resp.Choices) == 0 {
		return nil, &provider.MalformedResponseError{
			Missing: provider.MissingChoices,
			Raw:     string(raw),
		}
	}

	choice := resp.Choices[0]
	if choice.Message == nil {
		return nil, &provider.MalformedResponseError{
			Missing: provider.MissingMessage,
			Raw:     string(raw),
		}
	}

	result := &provider.Response{
		Content:      choice.Message.Content,
		FinishReason: convertFinishReason(choice.FinishReason),
		Usage: provider.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	for _, tc := range choice.Message.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, provider.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return result, nil
}

// convertFinishReason converts a wire finish reason to a provider.FinishReason.
func convertFinishReason(reason string) provider.FinishReason {
	switch reason {
	case "tool_calls":
		return provider.FinishReasonToolCalls
	case "length":
		return provider.FinishReasonLength
	default:
		return provider.FinishReasonStop
	}
}
