package core

import "context"

// Agent is the handle tools receive when they declare an agent parameter.
// It lets a tool converse with its caller or spin up an avatar that can think
// privately without polluting the caller's memory.
type Agent interface {
	// Name returns the agent's display name.
	Name() string

	// Memory returns the agent's conversation memory.
	Memory() *Memory

	// ReceiveMessage appends msg to the agent's memory without triggering a model call.
	ReceiveMessage(msg Message)

	// ThinkAndAct runs the think-act loop until the model replies without a
	// tool call or the iteration ceiling is reached.
	ThinkAndAct(ctx context.Context) error

	// LastMessage returns the most recent message of the agent's effective memory.
	LastMessage() (Message, bool)

	// Respond receives msg, runs ThinkAndAct and returns the model's final reply,
	// whether or not the reply was recorded in memory.
	Respond(ctx context.Context, msg Message) (Message, error)

	// NewAvatar derives an avatar that shares the agent's tools and model and
	// starts from its current memory.
	NewAvatar() (Agent, error)
}
