package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageConstructors(t *testing.T) {
	calls := []ToolCall{
		{ID: "call_1", Name: "search_content", Arguments: `{"query":"go"}`},
	}

	tests := []struct {
		name string
		msg  Message
		want Message
	}{
		{
			name: "system",
			msg:  SystemMessage("You are a content assistant."),
			want: Message{Role: RoleSystem, Content: "You are a content assistant."},
		},
		{
			name: "user",
			msg:  UserMessage("find me articles about Go"),
			want: Message{Role: RoleUser, Content: "find me articles about Go"},
		},
		{
			name: "assistant",
			msg:  AssistantMessage("Here are the results."),
			want: Message{Role: RoleAssistant, Content: "Here are the results."},
		},
		{
			name: "assistant with tool calls",
			msg:  AssistantMessageWithToolCalls("", calls),
			want: Message{Role: RoleAssistant, ToolCalls: calls},
		},
		{
			name: "tool",
			msg:  ToolMessage("call_1", "3 results found"),
			want: Message{Role: RoleTool, Content: "3 results found", ToolID: "call_1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg)
		})
	}
}

func TestRoleConstants(t *testing.T) {
	assert.Equal(t, Role("system"), RoleSystem)
	assert.Equal(t, Role("user"), RoleUser)
	assert.Equal(t, Role("assistant"), RoleAssistant)
	assert.Equal(t, Role("tool"), RoleTool)
}
