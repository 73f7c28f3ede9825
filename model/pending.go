package model

import "github.com/hupe1980/thinkact/core"

// PendingToolResult is the content recorded for a tool call whose result has
// not been appended yet.
const PendingToolResult = `{"status":"pending"}`

// ClosePendingToolCalls returns msgs where every assistant tool call that is
// not immediately followed by its tool result gets a pending result inserted
// right after it. Avatars derived from inside a running tool see their
// origin's call without a result; tools-API providers reject such histories.
// msgs is returned unchanged when nothing is pending.
func ClosePendingToolCalls(msgs []core.Message) []core.Message {
	var out []core.Message

	for i, msg := range msgs {
		if out != nil {
			out = append(out, msg)
		}
		if !msg.HasToolCall() || answered(msgs, i) {
			continue
		}
		if out == nil {
			out = append(make([]core.Message, 0, len(msgs)+1), msgs[:i+1]...)
		}
		out = append(out, core.NewToolMessage(msg.ToolCall.Name, msg.ToolCall.ID, PendingToolResult))
	}

	if out == nil {
		return msgs
	}

	return out
}

func answered(msgs []core.Message, i int) bool {
	if i+1 >= len(msgs) {
		return false
	}
	next := msgs[i+1]
	return next.Role == core.RoleTool && next.ToolCallID == msgs[i].ToolCall.ID
}
