package agent

import (
	"fmt"
	"io"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/model"
	"github.com/hupe1980/thinkact/tool"
)

// AvatarOptions overrides parts of the origin's configuration for an avatar.
// Nil / zero fields inherit from the origin.
type AvatarOptions struct {
	// Tools replaces the origin's tools. Nil shares the origin's registry.
	// A replacement registry keeps the origin's argument repair setting.
	Tools []tool.Toolset
	// Model replaces the origin's transport.
	Model model.Model
	// Engine replaces the origin's engine identifier.
	Engine               string
	MaxToolIterations    *int
	SurfacePlainMessages *bool
	// Output replaces the origin's stream sink.
	Output io.Writer
}

// DeriveAvatar creates an agent with the same name, model, engine and tools
// whose memory is derived from a's memory. The avatar sees everything a has
// seen (and anything a appends later); nothing the avatar appends is visible
// to a.
func (a *Agent) DeriveAvatar(optFns ...func(o *AvatarOptions)) (*Agent, error) {
	var opts AvatarOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	av := &Agent{
		id:                   core.NewID(),
		name:                 a.name,
		llm:                  a.llm,
		engine:               a.engine,
		memory:               a.memory.Derive(),
		registry:             a.registry,
		maxToolIterations:    a.maxToolIterations,
		surfacePlainMessages: a.surfacePlainMessages,
		toolChoice:           a.toolChoice,
		sampling:             a.sampling,
		repairArguments:      a.repairArguments,
		output:               a.output,
		logger:               a.logger,
		origin:               a,
	}

	if opts.Tools != nil {
		registry, err := tool.NewRegistry(opts.Tools, func(o *tool.RegistryOptions) {
			o.RepairArguments = a.repairArguments
			o.Logger = a.logger
		})
		if err != nil {
			return nil, fmt.Errorf("avatar of %s: %w", a.name, err)
		}
		av.registry = registry
	}
	if opts.Model != nil {
		av.llm = opts.Model
	}
	if opts.Engine != "" {
		av.engine = opts.Engine
	}
	if opts.MaxToolIterations != nil {
		if *opts.MaxToolIterations < 0 {
			return nil, fmt.Errorf("avatar of %s: max tool iterations must not be negative", a.name)
		}
		av.maxToolIterations = *opts.MaxToolIterations
	}
	if opts.SurfacePlainMessages != nil {
		av.surfacePlainMessages = *opts.SurfacePlainMessages
	}
	if opts.Output != nil {
		av.output = opts.Output
	}

	a.logger.Debug("agent.avatar.derived", "agent", a.name, "origin_id", a.id, "avatar_id", av.id, "depth", av.memory.Depth())

	return av, nil
}

// NewAvatar implements core.Agent.
func (a *Agent) NewAvatar() (core.Agent, error) {
	return a.DeriveAvatar()
}
