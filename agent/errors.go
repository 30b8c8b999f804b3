package agent

import "fmt"

// RetryExhaustedError reports that every retry attempt against the LLM
// endpoint failed with a transient-looking error.
type RetryExhaustedError struct {
	Endpoint string
	Attempts int
	Hint     string
	Cause    error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("Unable to reach the LLM endpoint at %s after %d attempts. Original error: %v. %s",
		e.Endpoint, e.Attempts, e.Cause, e.Hint)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Cause
}

// NonRetryableError reports an LLM call failure that retrying will not fix,
// with a hint at the likely misconfiguration.
type NonRetryableError struct {
	Hint  string
	Cause error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("LLM request failed: %v. %s", e.Cause, e.Hint)
}

func (e *NonRetryableError) Unwrap() error {
	return e.Cause
}
