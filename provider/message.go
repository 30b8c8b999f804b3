package provider

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{
		Role:    RoleSystem,
		Content: content,
	}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{
		Role:    RoleUser,
		Content: content,
	}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) Message {
	return Message{
		Role:    RoleAssistant,
		Content: content,
	}
}

// AssistantMessageWithToolCalls creates an assistant message carrying the
// tool calls the model issued. It is appended to the outgoing transcript so
// the model can see its own requests alongside the results.
func AssistantMessageWithToolCalls(content string, toolCalls []ToolCall) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		ToolCalls: toolCalls,
	}
}

// ToolMessage creates a tool result message correlated to an assistant-issued
// tool call by ID.
func ToolMessage(toolCallID, content string) Message {
	return Message{
		Role:    RoleTool,
		Content: content,
		ToolID:  toolCallID,
	}
}
