// Package agent implements the tool-calling orchestration loop: it turns one
// user utterance into as many completion rounds as the model needs,
// dispatching requested tool calls between rounds and feeding their results
// back until the model produces a final answer.
package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/contentmcp/agent/provider"
)

// stallFallback is returned when the model keeps reissuing the same tool
// calls and produced no usable text of its own.
const stallFallback = "I was able to fetch the information but encountered an issue processing it. " +
	"Please try a different approach or rephrase your request."

// Agent holds one conversation against an LLM backend and a tool host.
// It is not safe for concurrent use; run one conversation per instance.
type Agent struct {
	completer    *completer
	host         ToolHost
	logger       *slog.Logger
	model        string
	systemPrompt string
	temperature  float64
	maxTokens    int

	history []provider.Message
}

// Option configures an Agent.
type Option func(*Agent)

// WithToolHost attaches the external tool host. Without one the agent runs
// as a plain chat agent.
func WithToolHost(host ToolHost) Option {
	return func(a *Agent) {
		a.host = host
	}
}

// WithSystemPrompt sets the system instructions prepended to every request.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.systemPrompt = prompt
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(a *Agent) {
		a.temperature = t
	}
}

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(n int) Option {
	return func(a *Agent) {
		a.maxTokens = n
	}
}

// WithMaxAttempts sets the retry budget for each completion call.
func WithMaxAttempts(n int) Option {
	return func(a *Agent) {
		a.completer.maxAttempts = n
	}
}

// WithRetryInterval sets the base backoff interval between retry attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(a *Agent) {
		a.completer.interval = d
	}
}

// WithRemoteAPI switches failure guidance to the remote-API wording
// (key/model checks) instead of the local-server wording.
func WithRemoteAPI() Option {
	return func(a *Agent) {
		a.completer.remoteAPI = true
	}
}

// New creates an Agent speaking to the given provider with the given model.
func New(p provider.Provider, model string, opts ...Option) (*Agent, error) {
	if p == nil {
		return nil, errors.New("agent requires a provider")
	}
	if model == "" {
		return nil, errors.New("agent requires a model name")
	}

	a := &Agent{
		completer: &completer{
			provider:    p,
			maxAttempts: 3,
			interval:    time.Second,
		},
		model:       model,
		temperature: 0.3,
		maxTokens:   2000,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a.completer.logger = a.logger

	return a, nil
}

// ProcessMessage runs one conversation turn and returns the assistant's
// answer. It never fails: terminal errors come back as "Error: ..." strings.
// On success exactly one user and one assistant message are appended to the
// conversation history.
func (a *Agent) ProcessMessage(ctx context.Context, userInput string) string {
	a.history = append(a.history, provider.UserMessage(userInput))

	messages := make([]provider.Message, 0, len(a.history)+1)
	if a.systemPrompt != "" {
		messages = append(messages, provider.SystemMessage(a.systemPrompt))
	}
	messages = append(messages, a.history...)

	tools := a.listTools(ctx, userInput)

	answer, err := a.converse(ctx, messages, tools)
	if err != nil {
		return "Error: " + err.Error()
	}

	a.history = append(a.history, provider.AssistantMessage(answer))
	return answer
}

// converse runs completion rounds until the model answers without requesting
// tools, or a repeated identical tool-call set forces the loop to stop.
func (a *Agent) converse(ctx context.Context, messages []provider.Message, tools []provider.ToolDef) (string, error) {
	var previousCalls []string

	for {
		req := &provider.Request{
			Model:       a.model,
			Messages:    messages,
			Tools:       tools,
			Temperature: &a.temperature,
			MaxTokens:   &a.maxTokens,
		}

		resp, err := a.completer.complete(ctx, req)
		if err != nil {
			return "", err
		}

		if len(resp.ToolCalls) == 0 || len(tools) == 0 {
			a.logger.Debug("model provided final response")
			return resp.Content, nil
		}

		// The same ordered call set twice in a row means the model is not
		// converging; stop before invoking the tools again.
		currentCalls := callSignatures(resp.ToolCalls)
		if slices.Equal(currentCalls, previousCalls) {
			a.logger.Warn("repeated identical tool calls; breaking loop")
			if resp.Content != "" {
				return resp.Content, nil
			}
			return stallFallback, nil
		}
		previousCalls = currentCalls

		messages = append(messages, provider.AssistantMessageWithToolCalls(resp.Content, resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			messages = append(messages, provider.ToolMessage(call.ID, a.invokeTool(ctx, call)))
		}
		a.logger.Debug("added tool results to conversation",
			"results", len(resp.ToolCalls), "messages", len(messages))
	}
}

// callSignatures pairs each requested tool name with its raw argument
// payload, in request order.
func callSignatures(calls []provider.ToolCall) []string {
	signatures := make([]string, len(calls))
	for i, call := range calls {
		signatures[i] = call.Name + "(" + call.Arguments + ")"
	}
	return signatures
}

// Reset clears the conversation history so the next turn starts fresh.
func (a *Agent) Reset() {
	a.history = a.history[:0]
}

// History returns a copy of the conversation history.
func (a *Agent) History() []provider.Message {
	out := make([]provider.Message, len(a.history))
	copy(out, a.history)
	return out
}
