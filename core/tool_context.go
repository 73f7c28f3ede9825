package core

import (
	"context"

	"github.com/hupe1980/thinkact/logging"
)

// ToolContext carries the per-invocation data a tool body may need: the
// request context, the call being served and a logger. The dispatcher creates
// a fresh ToolContext for every call.
type ToolContext struct {
	ctx        context.Context
	call       ToolCall
	callerName string
	logger     logging.Logger
}

// NewToolContext constructs a tool context for a single call.
func NewToolContext(ctx context.Context, call ToolCall, callerName string, logger logging.Logger) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &ToolContext{
		ctx:        ctx,
		call:       call,
		callerName: callerName,
		logger:     logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// FunctionCallID returns the identifier of the tool call being served.
func (tc *ToolContext) FunctionCallID() string { return tc.call.ID }

// ToolName returns the name the model used to request the call.
func (tc *ToolContext) ToolName() string { return tc.call.Name }

// RawArguments returns the argument text as the model produced it.
func (tc *ToolContext) RawArguments() string { return tc.call.Arguments }

// CallerName returns the name of the agent that requested the call.
func (tc *ToolContext) CallerName() string { return tc.callerName }

// Logger returns the logger associated with the tool invocation. It is never nil.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }

// LogDebug logs at debug level, tagged with the tool name and caller.
func (tc *ToolContext) LogDebug(msg string, args ...any) { tc.logger.Debug(msg, tc.tag(args)...) }

// LogInfo logs at info level, tagged with the tool name and caller.
func (tc *ToolContext) LogInfo(msg string, args ...any) { tc.logger.Info(msg, tc.tag(args)...) }

// LogWarn logs at warn level, tagged with the tool name and caller.
func (tc *ToolContext) LogWarn(msg string, args ...any) { tc.logger.Warn(msg, tc.tag(args)...) }

// LogError logs at error level, tagged with the tool name and caller.
func (tc *ToolContext) LogError(msg string, args ...any) { tc.logger.Error(msg, tc.tag(args)...) }

func (tc *ToolContext) tag(args []any) []any {
	return append([]any{"tool", tc.call.Name, "caller", tc.callerName}, args...)
}
