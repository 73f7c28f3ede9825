package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/internal/testutil"
	"github.com/hupe1980/thinkact/model"
	"github.com/hupe1980/thinkact/tool"
)

func TestDeriveAvatar_Isolation(t *testing.T) {
	llm := model.NewScriptedModel(testutil.TextReply("private thought"))
	origin := newAgent(t, llm, func(o *Options) {
		o.Tools = []tool.Toolset{addTool()}
		o.Messages = testutil.NewConversationBuilder().User("shared").Build()
	})

	av, err := origin.DeriveAvatar(func(o *AvatarOptions) {
		surface := true
		o.SurfacePlainMessages = &surface
	})
	require.NoError(t, err)

	assert.Same(t, origin, av.Origin())
	assert.Equal(t, origin.Name(), av.Name())
	assert.NotEqual(t, origin.ID(), av.ID())
	assert.Same(t, origin.Registry(), av.Registry())

	reply, err := av.Respond(context.Background(), core.NewUserMessage("think"))
	require.NoError(t, err)
	assert.Equal(t, "private thought", reply.Content)

	assert.Len(t, av.FullMemory(), 3)
	assert.Equal(t, []core.Message{core.NewUserMessage("shared")}, origin.FullMemory())
}

func TestDeriveAvatar_SeesLaterOriginAppends(t *testing.T) {
	origin := newAgent(t, model.NewScriptedModel())
	av, err := origin.DeriveAvatar()
	require.NoError(t, err)

	origin.ReceiveMessage(core.NewUserMessage("late"))

	last, ok := av.LastMessage()
	require.True(t, ok)
	assert.Equal(t, "late", last.Content)
}

func TestDeriveAvatar_Overrides(t *testing.T) {
	origin := newAgent(t, model.NewScriptedModel(), func(o *Options) { o.Tools = []tool.Toolset{addTool()} })
	other := model.NewScriptedModel(testutil.TextReply("x"))
	zero := 0

	av, err := origin.DeriveAvatar(func(o *AvatarOptions) {
		o.Model = other
		o.Engine = "small"
		o.MaxToolIterations = &zero
		o.Tools = []tool.Toolset{}
	})
	require.NoError(t, err)

	assert.Same(t, other, av.Model())
	assert.Equal(t, "small", av.Engine())
	assert.Equal(t, 0, av.MaxToolIterations())
	assert.Equal(t, 0, av.Registry().Len())

	require.NoError(t, av.ThinkAndAct(context.Background()))
	assert.Equal(t, 0, other.Calls())
}

func TestDeriveAvatar_ToolsOverrideKeepsRepair(t *testing.T) {
	llm := model.NewScriptedModel(
		testutil.ToolCallReply("c1", "add", `{"a": 2, "b": 3`),
		testutil.TextReply("5"),
	)
	origin := newAgent(t, llm, func(o *Options) { o.RepairArguments = true })

	av, err := origin.DeriveAvatar(func(o *AvatarOptions) {
		o.Tools = []tool.Toolset{addTool()}
	})
	require.NoError(t, err)
	assert.NotSame(t, origin.Registry(), av.Registry())

	require.NoError(t, av.ThinkAndAct(context.Background()))

	msgs := av.Memory().Own()
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleTool, msgs[1].Role)
	assert.Equal(t, "5", msgs[1].Content)
}

func TestDeriveAvatar_NestedDepth(t *testing.T) {
	origin := newAgent(t, model.NewScriptedModel())
	av1, err := origin.DeriveAvatar()
	require.NoError(t, err)
	av2, err := av1.NewAvatar()
	require.NoError(t, err)

	assert.Equal(t, 2, av2.Memory().Depth())
	av2.ReceiveMessage(core.NewUserMessage("deep"))
	assert.Equal(t, 0, av1.Memory().Len())
	assert.Equal(t, 0, origin.Memory().Len())
}

// A tool that consults a private avatar of its caller and stores only the
// verdict in the caller's memory.
func TestAvatar_FromInsideTool(t *testing.T) {
	judge := tool.NewFunctionTool(
		tool.NewSignature("judge", "Asks a private avatar for a verdict.", tool.AgentArg()),
		func(tc *core.ToolContext, args tool.Args) (any, error) {
			av, err := args.Agent().NewAvatar()
			if err != nil {
				return nil, err
			}
			verdict, err := av.Respond(tc.Context(), core.NewUserMessage("verdict?"))
			if err != nil {
				return nil, err
			}
			return verdict.Content, nil
		},
	)
	llm := model.NewScriptedModel(
		testutil.ToolCallReply("c1", "judge", `{}`),
		testutil.TextReply("guilty"),
		testutil.TextReply("noted"),
	)
	a := newAgent(t, llm, func(o *Options) {
		o.Tools = []tool.Toolset{judge}
		o.SurfacePlainMessages = true
	})

	require.NoError(t, a.ThinkAndAct(context.Background()))

	mem := a.FullMemory()
	require.Len(t, mem, 3)
	assert.Equal(t, core.NewToolMessage("judge", "c1", `"guilty"`), mem[1])
	assert.Equal(t, "noted", mem[2].Content)
	for _, m := range mem {
		assert.NotEqual(t, "verdict?", m.Content)
	}
}
