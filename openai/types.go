package openai

import "encoding/json"

// chatCompletionRequest represents a chat completion request.
type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Tools       []toolDef `json:"tools,omitempty"`
	ToolChoice  string    `json:"tool_choice,omitempty"`
}

// message represents a chat message.
type message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// toolDef represents a tool definition.
type toolDef struct {
	Type     string      `json:"type"`
	Function functionDef `json:"function"`
}

// functionDef represents a function definition within a tool.
type functionDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// chatCompletionResponse represents a chat completion response.
type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

// choice represents a completion choice. Message is a pointer so a choice
// arriving without a message payload stays distinguishable from an empty one.
type choice struct {
	Index        int              `json:"index"`
	Message      *responseMessage `json:"message"`
	FinishReason string           `json:"finish_reason"`
}

// responseMessage represents the assistant's response message.
type responseMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

// toolCall represents a tool call from the assistant.
type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function functionCall `json:"function"`
}

// functionCall represents the function being called.
type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// usage represents token usage information.
type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// errorResponse represents an API error response.
type errorResponse struct {
	Error apiError `json:"error"`
}

// apiError represents the error details.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}
