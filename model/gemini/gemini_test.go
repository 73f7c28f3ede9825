package gemini

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/internal/testutil"
	"github.com/hupe1980/thinkact/model"
)

func TestConvMessages(t *testing.T) {
	contents := convMessages(testutil.NewConversationBuilder().
		System("sys").
		User("2+3?").
		ToolRound("c1", "add", `{"a":2,"b":3}`, "5").
		User("thanks").
		Build())

	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)

	assert.Equal(t, "model", contents[1].Role)
	require.NotNil(t, contents[1].Parts[0].FunctionCall)
	assert.Equal(t, "add", contents[1].Parts[0].FunctionCall.Name)
	assert.Equal(t, map[string]any{"a": float64(2), "b": float64(3)}, contents[1].Parts[0].FunctionCall.Args)

	assert.Equal(t, "user", contents[2].Role)
	require.Len(t, contents[2].Parts, 2)
	resp := contents[2].Parts[0].FunctionResponse
	require.NotNil(t, resp)
	assert.Equal(t, "add", resp.Name)
	assert.Equal(t, map[string]any{"output": float64(5)}, resp.Response)
	assert.Equal(t, "thanks", contents[2].Parts[1].Text)
}

func TestConvMessages_PendingToolCall(t *testing.T) {
	contents := convMessages([]core.Message{
		core.NewUserMessage("remember x"),
		core.NewToolCallMessage(core.ToolCall{ID: "c1", Name: "judge_and_save", Arguments: `{"info":"x"}`}),
		core.NewUserMessage("worth saving?"),
	})

	require.Len(t, contents, 3)
	require.NotNil(t, contents[1].Parts[0].FunctionCall)

	assert.Equal(t, "user", contents[2].Role)
	require.Len(t, contents[2].Parts, 2)
	resp := contents[2].Parts[0].FunctionResponse
	require.NotNil(t, resp)
	assert.Equal(t, "c1", resp.ID)
	assert.Equal(t, "judge_and_save", resp.Name)
	assert.Equal(t, map[string]any{"status": "pending"}, resp.Response)
	assert.Equal(t, "worth saving?", contents[2].Parts[1].Text)
}

func TestBuildConfig(t *testing.T) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"a": {Type: "integer", Description: "first"},
			"s": {},
		},
		Required: []string{"a"},
	}

	cfg, contents := buildConfig(model.Request{
		Messages:   []core.Message{core.NewSystemMessage("sys"), core.NewUserMessage("hi")},
		Tools:      []model.ToolDefinition{{Name: "add", Description: "Adds.", Parameters: schema}},
		ToolChoice: model.ToolChoiceAuto,
		Sampling:   model.Sampling{Temperature: model.Float(1), MaxTokens: 32},
	})

	require.Len(t, contents, 1)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "sys", cfg.SystemInstruction.Parts[0].Text)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 1.0, *cfg.Temperature, 1e-6)
	assert.Equal(t, int32(32), cfg.MaxOutputTokens)

	require.Len(t, cfg.Tools, 1)
	decl := cfg.Tools[0].FunctionDeclarations[0]
	assert.Equal(t, "add", decl.Name)
	assert.Equal(t, genai.TypeObject, decl.Parameters.Type)
	assert.Equal(t, genai.TypeInteger, decl.Parameters.Properties["a"].Type)
	assert.Equal(t, genai.TypeString, decl.Parameters.Properties["s"].Type)
	assert.Equal(t, []string{"a"}, decl.Parameters.Required)
	require.NotNil(t, cfg.ToolConfig)

	bare, _ := buildConfig(model.Request{Messages: []core.Message{core.NewUserMessage("hi")}})
	assert.Empty(t, bare.Tools)
	assert.Nil(t, bare.ToolConfig)
}

func TestStreamState(t *testing.T) {
	chunk := func(parts ...*genai.Part) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}}}
	}

	st := &streamState{}
	var frags []model.Fragment
	frags = append(frags, st.fragments(chunk(genai.NewPartFromText("Adding")))...)
	frags = append(frags, st.fragments(chunk(
		&genai.Part{FunctionCall: &genai.FunctionCall{Name: "add", Args: map[string]any{"a": 2, "b": 3}}},
		&genai.Part{FunctionCall: &genai.FunctionCall{Name: "other"}},
	))...)
	frags = append(frags, st.fragments(&genai.GenerateContentResponse{})...)

	msg := model.AccumulateFragments(frags, nil)
	assert.Equal(t, core.RoleAssistant, msg.Role)
	assert.Equal(t, "Adding", msg.Content)
	require.NotNil(t, msg.ToolCall)
	assert.Equal(t, "add", msg.ToolCall.Name)
	assert.JSONEq(t, `{"a":2,"b":3}`, msg.ToolCall.Arguments)
	assert.NotEmpty(t, msg.ToolCall.ID)
}

func TestObjectOr(t *testing.T) {
	assert.Equal(t, map[string]any{"x": "y"}, objectOr(`{"x":"y"}`, "output"))
	assert.Equal(t, map[string]any{"output": "done"}, objectOr(`"done"`, "output"))
	assert.Equal(t, map[string]any{"output": "plain"}, objectOr(`plain`, "output"))
}
