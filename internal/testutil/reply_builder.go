package testutil

import (
	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/model"
)

// ReplyBuilder provides a fluent helper for scripting one streamed model reply.
// Example:
//
//	s := NewReplyBuilder().Text("Hel").Text("lo").Build()
//
// Chain only the parts you need; an assistant role fragment is emitted first
// unless Role overrides it.
type ReplyBuilder struct {
	role  *core.Role
	frags []model.Fragment
	err   error
}

// NewReplyBuilder creates a builder whose reply starts with the assistant role.
func NewReplyBuilder() *ReplyBuilder {
	r := core.RoleAssistant
	return &ReplyBuilder{role: &r}
}

// Role overrides the leading role fragment (chainable).
func (b *ReplyBuilder) Role(r core.Role) *ReplyBuilder { b.role = &r; return b }

// NoRole suppresses the leading role fragment (chainable).
func (b *ReplyBuilder) NoRole() *ReplyBuilder { b.role = nil; return b }

// Text appends a content delta (chainable).
func (b *ReplyBuilder) Text(s string) *ReplyBuilder {
	b.frags = append(b.frags, model.ContentFragment(s))
	return b
}

// ToolCall appends a complete tool call in a single delta (chainable).
func (b *ReplyBuilder) ToolCall(id, name, args string) *ReplyBuilder {
	b.frags = append(b.frags, model.ToolCallFragment(id, name, args))
	return b
}

// ToolCallChunked splits the arguments of a tool call across several deltas
// the way streaming transports deliver them (chainable).
func (b *ReplyBuilder) ToolCallChunked(id, name string, argChunks ...string) *ReplyBuilder {
	b.frags = append(b.frags, model.ToolCallFragment(id, name, ""))
	for _, c := range argChunks {
		b.frags = append(b.frags, model.ToolArgumentsFragment(c))
	}
	return b
}

// Fragment appends a raw fragment (chainable).
func (b *ReplyBuilder) Fragment(f model.Fragment) *ReplyBuilder {
	b.frags = append(b.frags, f)
	return b
}

// Err makes the reply end with a transport error (chainable).
func (b *ReplyBuilder) Err(err error) *ReplyBuilder { b.err = err; return b }

// Build finalizes and returns the script.
func (b *ReplyBuilder) Build() model.Script {
	frags := make([]model.Fragment, 0, len(b.frags)+1)
	if b.role != nil {
		frags = append(frags, model.RoleFragment(*b.role))
	}
	frags = append(frags, b.frags...)
	return model.Script{Fragments: frags, Err: b.err}
}

// TextReply is shorthand for a reply carrying only content.
func TextReply(s string) model.Script { return NewReplyBuilder().Text(s).Build() }

// ToolCallReply is shorthand for a reply carrying only a tool call.
func ToolCallReply(id, name, args string) model.Script {
	return NewReplyBuilder().ToolCall(id, name, args).Build()
}
