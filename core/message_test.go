package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, RoleSystem, NewSystemMessage("s").Role)
	assert.Equal(t, RoleUser, NewUserMessage("u").Role)
	assert.Equal(t, RoleAssistant, NewAssistantMessage("a").Role)

	tm := NewToolMessage("add", "call-1", "5")
	assert.Equal(t, RoleTool, tm.Role)
	assert.Equal(t, "add", tm.ToolName)
	assert.Equal(t, "call-1", tm.ToolCallID)
	assert.Equal(t, "5", tm.Content)
	assert.False(t, tm.HasToolCall())

	cm := NewToolCallMessage(ToolCall{Name: "add"})
	assert.True(t, cm.HasToolCall())
	assert.Empty(t, cm.Content)
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleSystem, RoleUser, RoleAssistant, RoleTool} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("function").Valid())
	assert.False(t, Role("").Valid())
}

func TestMessageJSON(t *testing.T) {
	msg := NewToolCallMessage(ToolCall{ID: "x", Name: "add", Arguments: `{"a":2}`})
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"assistant","content":"","tool_call":{"id":"x","name":"add","arguments":"{\"a\":2}"}}`, string(b))
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestToolContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), struct{}{}, "v")
	tc := NewToolContext(ctx, ToolCall{ID: "fc1", Name: "add", Arguments: "{}"}, "alice", nil)

	assert.Equal(t, ctx, tc.Context())
	assert.Equal(t, "fc1", tc.FunctionCallID())
	assert.Equal(t, "add", tc.ToolName())
	assert.Equal(t, "{}", tc.RawArguments())
	assert.Equal(t, "alice", tc.CallerName())
	assert.NotNil(t, tc.Logger())

	tc.LogInfo("noop") // nil logger is replaced by a no-op logger
}
