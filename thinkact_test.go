package thinkact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/thinkact/config"
	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/internal/testutil"
	"github.com/hupe1980/thinkact/logging"
	"github.com/hupe1980/thinkact/model"
	"github.com/hupe1980/thinkact/notebook"
	"github.com/hupe1980/thinkact/tool"
)

func TestNewModel(t *testing.T) {
	for _, p := range []string{config.ProviderOpenAI, config.ProviderAnthropic, config.ProviderCompat} {
		cfg := config.Default()
		cfg.Provider = p
		cfg.APIKey = "test"
		cfg.Engine = "engine-x"

		m, err := NewModel(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, p, m.Info().Provider)
		assert.Equal(t, "engine-x", m.Info().Name)
	}

	cfg := config.Default()
	cfg.Provider = "nope"
	_, err := NewModel(context.Background(), cfg)
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	l, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, l)

	cfg.LogLevel = "loud"
	_, err = NewLogger(cfg)
	require.Error(t, err)
}

func TestNewAgent(t *testing.T) {
	cfg := config.Default()
	cfg.Name = "Recorder"
	cfg.Engine = "scripted-engine"
	cfg.MaxToolIterations = 4
	cfg.SurfacePlainMessages = true

	llm := model.NewScriptedModel(
		testutil.ToolCallReply("c1", "record_info", `{"info":"x","keywords":"k"}`),
		testutil.TextReply("Saved."),
	)

	a, err := NewAgent(context.Background(), cfg, func(o *Options) {
		o.Model = llm
		o.Logger = logging.NoOpLogger{}
		o.Tools = []tool.Toolset{notebook.New(nil)}
	})
	require.NoError(t, err)

	assert.Equal(t, "Recorder", a.Name())
	assert.Equal(t, 4, a.MaxToolIterations())
	assert.True(t, a.SurfacePlainMessages())

	first, ok := a.Memory().Last()
	require.True(t, ok)
	assert.Equal(t, core.RoleSystem, first.Role)
	assert.Contains(t, first.Content, "You are Recorder")

	reply, err := a.Respond(context.Background(), core.NewUserMessage("note x"))
	require.NoError(t, err)
	assert.Equal(t, "Saved.", reply.Content)

	req := llm.Requests()[0]
	assert.Equal(t, "scripted-engine", req.Engine)
	require.NotNil(t, req.Sampling.Temperature)
	assert.InDelta(t, 1.0, *req.Sampling.Temperature, 1e-9)
	assert.Len(t, req.Tools, 4)
}

func TestNewAgent_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Name = ""
	_, err := NewAgent(context.Background(), cfg, func(o *Options) { o.Model = model.NewScriptedModel() })
	require.Error(t, err)
}
