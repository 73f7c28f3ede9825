package model

import "github.com/hupe1980/thinkact/core"

// Fragment is one incremental delta of a streamed model response. Every field
// is optional; a nil field means the fragment carries no delta for it.
type Fragment struct {
	Role     *core.Role     `json:"role,omitempty"`
	Content  *string        `json:"content,omitempty"`
	ToolCall *ToolCallDelta `json:"tool_call,omitempty"`
}

// ToolCallDelta is a partial tool call. Name and Arguments arrive in pieces and
// are concatenated; ID is assigned once.
type ToolCallDelta struct {
	ID        *string `json:"id,omitempty"`
	Name      *string `json:"name,omitempty"`
	Arguments *string `json:"arguments,omitempty"`
}

// IsEmpty reports whether the fragment carries no delta at all.
func (f Fragment) IsEmpty() bool {
	return f.Role == nil && f.Content == nil && f.ToolCall == nil
}

// RoleFragment returns a fragment carrying only a role.
func RoleFragment(r core.Role) Fragment { return Fragment{Role: &r} }

// ContentFragment returns a fragment carrying a content delta.
func ContentFragment(s string) Fragment { return Fragment{Content: &s} }

// ToolNameFragment returns a fragment carrying a tool-call name delta.
func ToolNameFragment(name string) Fragment {
	return Fragment{ToolCall: &ToolCallDelta{Name: &name}}
}

// ToolArgumentsFragment returns a fragment carrying a tool-call arguments delta.
func ToolArgumentsFragment(args string) Fragment {
	return Fragment{ToolCall: &ToolCallDelta{Arguments: &args}}
}

// ToolCallIDFragment returns a fragment carrying the tool-call identifier.
func ToolCallIDFragment(id string) Fragment {
	return Fragment{ToolCall: &ToolCallDelta{ID: &id}}
}

// ToolCallFragment returns a fragment carrying a complete tool call.
func ToolCallFragment(id, name, args string) Fragment {
	d := &ToolCallDelta{Name: &name, Arguments: &args}
	if id != "" {
		d.ID = &id
	}
	return Fragment{ToolCall: d}
}
