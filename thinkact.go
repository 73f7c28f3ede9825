// Package thinkact provides a high-level façade that builds a model
// transport, a logger and a tool-calling agent from a config.Config. Most
// applications interact with this package by:
//  1. Loading a config.Config (config.Load)
//  2. Calling NewAgent with the tool sources the agent may use
//  3. Feeding user messages via ReceiveMessage and running ThinkAndAct
//
// Lower level packages (agent, tool, model/*) remain usable directly when
// finer control is needed.
package thinkact

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/thinkact/agent"
	"github.com/hupe1980/thinkact/config"
	"github.com/hupe1980/thinkact/logging"
	"github.com/hupe1980/thinkact/model"
	"github.com/hupe1980/thinkact/model/anthropic"
	"github.com/hupe1980/thinkact/model/compat"
	"github.com/hupe1980/thinkact/model/gemini"
	"github.com/hupe1980/thinkact/model/openai"
	"github.com/hupe1980/thinkact/tool"
)

// Options configures NewAgent beyond what config.Config carries.
type Options struct {
	// Tools lists the sources offered to the model.
	Tools []tool.Toolset
	// Output receives streamed content.
	Output io.Writer
	// Model overrides the transport built from the config.
	Model model.Model
	// Logger overrides the logger built from the config.
	Logger logging.Logger
}

// NewLogger builds a structured logger at the configured level and format.
func NewLogger(cfg config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewSlogLogger(level, cfg.LogFormat, false).WithComponent("agent").WithAgent(cfg.Name), nil
}

// NewModel builds the transport named by cfg.Provider.
func NewModel(ctx context.Context, cfg config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			if cfg.Engine != "" {
				o.Model = cfg.Engine
			}
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			if cfg.Engine != "" {
				o.Model = anthropic.Model(cfg.Engine)
			}
		}), nil
	case config.ProviderGemini:
		m, err := gemini.NewModel(ctx, func(o *gemini.Options) {
			o.APIKey = cfg.APIKey
			if cfg.Engine != "" {
				o.Model = cfg.Engine
			}
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.ProviderCompat:
		return compat.NewModel(func(o *compat.Options) {
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.BaseURL
			if cfg.Engine != "" {
				o.Model = cfg.Engine
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// NewAgent validates cfg and builds an agent from it.
func NewAgent(ctx context.Context, cfg config.Config, optFns ...func(o *Options)) (*agent.Agent, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		l, err := NewLogger(cfg)
		if err != nil {
			return nil, err
		}
		logger = l
	}

	llm := opts.Model
	if llm == nil {
		m, err := NewModel(ctx, cfg)
		if err != nil {
			return nil, err
		}
		llm = m
	}

	return agent.New(cfg.Name, llm, func(o *agent.Options) {
		o.Prompt = cfg.Prompt
		o.Engine = cfg.Engine
		o.Tools = opts.Tools
		o.MaxToolIterations = cfg.MaxToolIterations
		o.SurfacePlainMessages = cfg.SurfacePlainMessages
		o.RepairArguments = cfg.RepairArguments
		o.Sampling = model.Sampling{Temperature: model.Float(cfg.Temperature), MaxTokens: cfg.MaxTokens}
		o.Output = opts.Output
		o.Logger = logger
	})
}
