package testutil

import (
	"github.com/hupe1980/thinkact/core"
)

// ConversationBuilder helps construct message histories with fluent chaining.
// Example:
//
//	msgs := NewConversationBuilder().System("be brief").User("hi").Build()
type ConversationBuilder struct {
	msgs []core.Message
}

// NewConversationBuilder creates an empty builder.
func NewConversationBuilder() *ConversationBuilder { return &ConversationBuilder{} }

// System appends a system message (chainable).
func (b *ConversationBuilder) System(s string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.NewSystemMessage(s))
	return b
}

// User appends a user message (chainable).
func (b *ConversationBuilder) User(s string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.NewUserMessage(s))
	return b
}

// Assistant appends a plain assistant message (chainable).
func (b *ConversationBuilder) Assistant(s string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.NewAssistantMessage(s))
	return b
}

// ToolRound appends an assistant tool call followed by the tool result
// (chainable).
func (b *ConversationBuilder) ToolRound(id, name, args, result string) *ConversationBuilder {
	b.msgs = append(b.msgs,
		core.NewToolCallMessage(core.ToolCall{ID: id, Name: name, Arguments: args}),
		core.NewToolMessage(name, id, result),
	)
	return b
}

// Build returns the accumulated messages.
func (b *ConversationBuilder) Build() []core.Message {
	out := make([]core.Message, len(b.msgs))
	copy(out, b.msgs)
	return out
}

// Memory returns a root memory seeded with the accumulated messages.
func (b *ConversationBuilder) Memory() *core.Memory {
	return core.NewMemory(b.msgs...)
}
