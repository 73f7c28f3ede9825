package core

import "github.com/google/uuid"

// Role identifies the author of a Message.
type Role string

const (
	// RoleSystem marks instructions that frame the conversation.
	RoleSystem Role = "system"
	// RoleUser marks input from the human or calling program.
	RoleUser Role = "user"
	// RoleAssistant marks output produced by the model.
	RoleAssistant Role = "assistant"
	// RoleTool marks the serialized result of a tool invocation.
	RoleTool Role = "tool"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// ToolCall is a model request to invoke a named tool. Arguments holds the raw
// JSON text exactly as the model produced it; it is parsed only at dispatch.
type ToolCall struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string `json:"name" yaml:"name"`
	Arguments string `json:"arguments,omitempty" yaml:"arguments,omitempty"`
}

// Message is a single entry of an agent's conversation memory.
//
// An empty Content stands for "no text": assistant messages that only request a
// tool call usually have none. Tool messages always carry ToolName and the
// serialized result in Content; ToolCallID links them back to the assistant
// message that requested the call.
type Message struct {
	Role       Role      `json:"role" yaml:"role"`
	Content    string    `json:"content" yaml:"content"`
	ToolCall   *ToolCall `json:"tool_call,omitempty" yaml:"tool_call,omitempty"`
	ToolName   string    `json:"tool_name,omitempty" yaml:"tool_name,omitempty"`
	ToolCallID string    `json:"tool_call_id,omitempty" yaml:"tool_call_id,omitempty"`
}

// NewSystemMessage creates a system message.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// NewUserMessage creates a user message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage creates a plain assistant message.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// NewToolCallMessage creates an assistant message requesting a tool call.
func NewToolCallMessage(call ToolCall) Message {
	return Message{Role: RoleAssistant, ToolCall: &call}
}

// NewToolMessage creates the message recording a tool's serialized result.
func NewToolMessage(toolName, callID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolName: toolName, ToolCallID: callID}
}

// HasToolCall reports whether the message requests a tool invocation.
func (m Message) HasToolCall() bool { return m.ToolCall != nil }

// Clone returns a copy that shares no pointers with m.
func (m Message) Clone() Message {
	if m.ToolCall != nil {
		tc := *m.ToolCall
		m.ToolCall = &tc
	}
	return m
}

// NewID returns a new random identifier (UUIDv4).
func NewID() string { return uuid.NewString() }
