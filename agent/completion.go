package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/contentmcp/agent/provider"
)

// Substrings marking a completion failure as likely transient.
var transientMarkers = []string{"connection", "timeout", "temporar", "reset"}

// completer wraps a provider with bounded retry on transient failures and
// backend-specific diagnostics on the ones retrying will not fix.
type completer struct {
	provider    provider.Provider
	logger      *slog.Logger
	remoteAPI   bool
	maxAttempts int
	interval    time.Duration
}

// complete issues one chat completion, retrying transient failures up to the
// attempt budget with a linear delay capped at two intervals.
func (c *completer) complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.provider.Call(ctx, req)
		if err == nil {
			return resp, nil
		}

		var shapeErr *provider.MalformedResponseError
		if errors.As(err, &shapeErr) {
			return nil, &shapeError{cause: shapeErr, hint: c.shapeHint(shapeErr.Missing)}
		}

		if !retryable(err) {
			return nil, &NonRetryableError{Hint: c.requestHint(), Cause: err}
		}

		lastErr = err
		if attempt == c.maxAttempts {
			break
		}

		delay := time.Duration(min(attempt, 2)) * c.interval
		c.logger.Debug("retrying completion after transient error",
			"attempt", attempt, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
			return nil, &RetryExhaustedError{
				Endpoint: c.provider.Endpoint(),
				Attempts: attempt,
				Hint:     c.connectionHint(),
				Cause:    lastErr,
			}
		case <-time.After(delay):
		}
	}

	return nil, &RetryExhaustedError{
		Endpoint: c.provider.Endpoint(),
		Attempts: c.maxAttempts,
		Hint:     c.connectionHint(),
		Cause:    lastErr,
	}
}

// retryable reports whether the error text looks like a transient
// network-level failure.
func retryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func (c *completer) requestHint() string {
	if c.remoteAPI {
		return "Recheck your OpenAI API key, selected model, or request parameters."
	}
	return "Verify the local model name in LOCAL_LLM_MODEL or set USE_OPENAI=true to use the OpenAI API instead."
}

func (c *completer) connectionHint() string {
	if c.remoteAPI {
		return "Confirm network access to OpenAI and that your API key is valid."
	}
	return "Ensure a local LLM server is running at " + c.provider.Endpoint() +
		", or set USE_OPENAI=true to fall back to the OpenAI API."
}

func (c *completer) shapeHint(missing string) string {
	if missing == provider.MissingMessage {
		if c.remoteAPI {
			return "Inspect the response on the OpenAI dashboard; the model may not support tools."
		}
		return "Verify the local server's response schema matches OpenAI's Chat Completions format."
	}
	if c.remoteAPI {
		return "Validate the requested OpenAI model and inspect platform logs for errors."
	}
	return "Check the local LLM server logs and confirm it supports the Chat Completions API."
}

// shapeError carries a malformed-response cause plus backend guidance while
// keeping the cause reachable through errors.As.
type shapeError struct {
	cause *provider.MalformedResponseError
	hint  string
}

func (e *shapeError) Error() string {
	return e.cause.Error() + " " + e.hint
}

func (e *shapeError) Unwrap() error {
	return e.cause
}
