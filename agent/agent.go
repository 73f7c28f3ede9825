package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/internal/util"
	"github.com/hupe1980/thinkact/logging"
	"github.com/hupe1980/thinkact/model"
	"github.com/hupe1980/thinkact/tool"
)

const (
	// DefaultMaxToolIterations bounds the model calls of one ThinkAndAct.
	DefaultMaxToolIterations = 10
	// DefaultTemperature is the sampling temperature used when none is set.
	DefaultTemperature = 1.0
)

// ErrNoMessage is returned by Respond when the loop made no model call.
var ErrNoMessage = errors.New("agent produced no reply")

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	// Prompt becomes the first (system) message. It may use text/template
	// syntax; {{.name}} and {{.engine}} are available.
	Prompt string
	// Messages are appended to memory after the prompt.
	Messages []core.Message
	// Engine names the model the transport should use. Empty means the
	// transport default.
	Engine string
	// Tools lists the sources offered to the model.
	Tools []tool.Toolset
	// MaxToolIterations bounds the model calls of one ThinkAndAct.
	MaxToolIterations int
	// SurfacePlainMessages records replies without a tool call in memory.
	SurfacePlainMessages bool
	// ToolChoice is sent along with the tool definitions.
	ToolChoice string
	Sampling   model.Sampling
	// RepairArguments enables lenient repair of malformed argument JSON.
	RepairArguments bool
	// Output receives streamed content as it arrives.
	Output io.Writer
	Logger logging.Logger
}

// Agent is a conversational agent that alternates between model calls and
// tool dispatch until the model answers without requesting a tool.
//
// Agent implements core.Agent, so tools that declare an agent parameter
// receive the calling *Agent.
type Agent struct {
	id                   string
	name                 string
	llm                  model.Model
	engine               string
	memory               *core.Memory
	registry             *tool.Registry
	maxToolIterations    int
	surfacePlainMessages bool
	toolChoice           string
	sampling             model.Sampling
	repairArguments      bool
	output               io.Writer
	logger               logging.Logger
	origin               *Agent

	replyMu sync.Mutex
	reply   *core.Message
}

var _ core.Agent = (*Agent)(nil)

// New creates an Agent named name driven by llm.
//
// Defaults: at most 10 model calls per ThinkAndAct, plain replies not
// recorded, tool choice "auto", temperature 1.0, no tools.
// Construction fails when the tool registry cannot be built.
func New(name string, llm model.Model, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		MaxToolIterations: DefaultMaxToolIterations,
		ToolChoice:        model.ToolChoiceAuto,
		Sampling:          model.Sampling{Temperature: model.Float(DefaultTemperature)},
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if llm == nil {
		return nil, fmt.Errorf("agent %s: model is nil", name)
	}
	if opts.MaxToolIterations < 0 {
		return nil, fmt.Errorf("agent %s: max tool iterations must not be negative", name)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	registry, err := tool.NewRegistry(opts.Tools, func(o *tool.RegistryOptions) {
		o.RepairArguments = opts.RepairArguments
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}

	memory := core.NewMemory()
	if opts.Prompt != "" {
		prompt, err := util.RenderPrompt(opts.Prompt, map[string]any{"name": name, "engine": opts.Engine})
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", name, err)
		}
		memory.Append(core.NewSystemMessage(prompt))
	}
	memory.Append(opts.Messages...)

	a := &Agent{
		id:                   core.NewID(),
		name:                 name,
		llm:                  llm,
		engine:               opts.Engine,
		memory:               memory,
		registry:             registry,
		maxToolIterations:    opts.MaxToolIterations,
		surfacePlainMessages: opts.SurfacePlainMessages,
		toolChoice:           opts.ToolChoice,
		sampling:             opts.Sampling,
		repairArguments:      opts.RepairArguments,
		output:               opts.Output,
		logger:               opts.Logger,
	}

	a.logger.Debug("agent.created", "agent", name, "id", a.id, "tools", registry.Len(), "engine", a.engine)

	return a, nil
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent's name. Avatars keep their origin's name.
func (a *Agent) Name() string { return a.name }

// Engine returns the engine identifier sent with every request.
func (a *Agent) Engine() string { return a.engine }

// Model returns the transport driving the agent.
func (a *Agent) Model() model.Model { return a.llm }

// Memory returns the agent's memory.
func (a *Agent) Memory() *core.Memory { return a.memory }

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *tool.Registry { return a.registry }

// Origin returns the agent this avatar was derived from, or nil.
func (a *Agent) Origin() *Agent { return a.origin }

// MaxToolIterations returns the model call ceiling of one ThinkAndAct.
func (a *Agent) MaxToolIterations() int { return a.maxToolIterations }

// SurfacePlainMessages reports whether plain replies are recorded.
func (a *Agent) SurfacePlainMessages() bool { return a.surfacePlainMessages }

// ReceiveMessage appends msg to memory. It never calls the model.
func (a *Agent) ReceiveMessage(msg core.Message) {
	a.memory.Append(msg)
}

// ReceiveMessages appends msgs to memory in order and returns a for chaining.
func (a *Agent) ReceiveMessages(msgs ...core.Message) *Agent {
	a.memory.Append(msgs...)
	return a
}

// LastMessage returns the most recent message of the effective memory.
func (a *Agent) LastMessage() (core.Message, bool) {
	return a.memory.Last()
}

// FullMemory returns a copy of the effective memory, ancestors included.
func (a *Agent) FullMemory() []core.Message {
	return a.memory.Effective()
}

// Respond receives msg, runs ThinkAndAct and returns the model's final reply.
// The reply is returned whether or not it was recorded in memory.
func (a *Agent) Respond(ctx context.Context, msg core.Message) (core.Message, error) {
	a.setReply(nil)
	a.ReceiveMessage(msg)

	if err := a.ThinkAndAct(ctx); err != nil {
		return core.Message{}, err
	}

	a.replyMu.Lock()
	defer a.replyMu.Unlock()

	if a.reply == nil {
		return core.Message{}, ErrNoMessage
	}

	return a.reply.Clone(), nil
}

func (a *Agent) setReply(msg *core.Message) {
	a.replyMu.Lock()
	a.reply = msg
	a.replyMu.Unlock()
}
