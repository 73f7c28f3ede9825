package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/model"
	"github.com/hupe1980/thinkact/tool"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Generate(ctx context.Context, req model.Request) (<-chan model.Fragment, <-chan error) {
	args := m.Called(ctx, req)
	return args.Get(0).(<-chan model.Fragment), args.Get(1).(<-chan error)
}

func (m *mockModel) Info() model.Info {
	return model.Info{Name: "mock", Provider: "mock", SupportsTools: true}
}

func stream(frags ...model.Fragment) (<-chan model.Fragment, <-chan error) {
	out := make(chan model.Fragment, len(frags))
	errCh := make(chan error)
	for _, f := range frags {
		out <- f
	}
	close(out)
	close(errCh)
	return out, errCh
}

func TestThinkAndAct_RequestShape(t *testing.T) {
	llm := new(mockModel)

	frags, errs := stream(model.RoleFragment(core.RoleAssistant), model.ContentFragment("hi"))
	llm.On("Generate", mock.Anything, mock.MatchedBy(func(req model.Request) bool {
		return req.Engine == "gpt-test" &&
			len(req.Messages) == 2 &&
			req.Messages[0].Role == core.RoleSystem &&
			req.Messages[1].Content == "hello" &&
			len(req.Tools) == 1 &&
			req.ToolChoice == model.ToolChoiceAuto
	})).Return(frags, errs).Once()

	a := newAgent(t, llm, func(o *Options) {
		o.Prompt = "sys"
		o.Engine = "gpt-test"
		o.Tools = []tool.Toolset{addTool()}
		o.SurfacePlainMessages = true
	})
	a.ReceiveMessage(core.NewUserMessage("hello"))

	require.NoError(t, a.ThinkAndAct(context.Background()))

	llm.AssertExpectations(t)
	last, ok := a.LastMessage()
	require.True(t, ok)
	assert.Equal(t, "hi", last.Content)
}

func TestThinkAndAct_ContextCanceled(t *testing.T) {
	llm := new(mockModel)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan model.Fragment)
	errCh := make(chan error)
	llm.On("Generate", ctx, mock.Anything).Return((<-chan model.Fragment)(out), (<-chan error)(errCh)).Once()

	a := newAgent(t, llm)
	a.ReceiveMessage(core.NewUserMessage("hello"))

	err := a.ThinkAndAct(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, a.FullMemory(), 1)
	llm.AssertExpectations(t)
}
