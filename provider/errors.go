package provider

import "fmt"

// Response shape fields a backend can omit.
const (
	MissingChoices = "choices"
	MissingMessage = "message"
)

// MalformedResponseError reports a completion response the wire client could
// decode but that lacks a usable choice or message payload. Raw carries the
// response body for diagnosis.
type MalformedResponseError struct {
	Missing string // MissingChoices or MissingMessage
	Raw     string
}

func (e *MalformedResponseError) Error() string {
	if e.Missing == MissingMessage {
		return fmt.Sprintf("LLM returned a choice without a message payload. Raw response: %s.", e.Raw)
	}
	return fmt.Sprintf("LLM returned no choices. Raw response: %s.", e.Raw)
}
