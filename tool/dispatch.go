package tool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/internal/util"
	"github.com/hupe1980/thinkact/logging"
)

// Done is the result recorded when a tool returns nothing.
const Done = "done"

// ErrorResult is the uniform result recorded when a call fails.
type ErrorResult struct {
	Error string `json:"error"`
}

// Outcome is the result of one dispatched call.
type Outcome struct {
	Tool     string
	Value    any
	Err      error
	Duration time.Duration
}

// Result returns the value to record in memory: an ErrorResult when the call
// failed, Done when the tool returned nil, the tool's value otherwise.
func (o Outcome) Result() any {
	if o.Err != nil {
		return ErrorResult{Error: o.Err.Error()}
	}
	if o.Value == nil {
		return Done
	}
	return o.Value
}

// Invoke dispatches call to the registered tool. It never panics and never
// returns an error of its own; every failure is reported through
// Outcome.Err as one of *UnknownToolError, *ArgumentParseError or
// *ToolExecutionError.
//
// When the tool declared the reserved parameters, caller is injected under
// "agent" and callerName under "agent_name".
func (r *Registry) Invoke(ctx context.Context, call core.ToolCall, caller core.Agent, callerName string) Outcome {
	start := time.Now()
	out := Outcome{Tool: call.Name}

	logger := r.logger()

	entry, ok := r.Lookup(call.Name)
	if !ok {
		out.Err = &UnknownToolError{Name: call.Name}
		out.Duration = time.Since(start)
		logger.Warn("tool.call.unknown", "tool", call.Name, "fc_id", call.ID)
		return out
	}

	args, err := r.parseArguments(entry, call)
	if err != nil {
		out.Err = err
		out.Duration = time.Since(start)
		logger.Warn("tool.call.validation_failed", "tool", call.Name, "fc_id", call.ID, "error", err.Error())
		return out
	}

	if entry.Injection.Agent {
		args[AgentParam] = caller
	}
	if entry.Injection.CallerName {
		args[CallerNameParam] = callerName
	}

	toolCtx := core.NewToolContext(ctx, call, callerName, logger)

	logger.Debug("tool.call.start", "tool", call.Name, "fc_id", call.ID)

	out.Value, out.Err = execute(entry.Tool, toolCtx, args)
	out.Duration = time.Since(start)

	if out.Err != nil {
		logger.Error("tool.call.error", "tool", call.Name, "fc_id", call.ID, "error", out.Err.Error())
		return out
	}

	logger.Info("tool.call.success", "tool", call.Name, "duration_ms", out.Duration.Milliseconds())

	return out
}

func (r *Registry) parseArguments(entry *Entry, call core.ToolCall) (Args, error) {
	obj, err := util.DecodeObject(call.Arguments, r.opts.RepairArguments)
	if err != nil {
		return nil, &ArgumentParseError{Tool: call.Name, Raw: call.Arguments, Err: err}
	}

	// Reserved names are never accepted from the model.
	delete(obj, AgentParam)
	delete(obj, CallerNameParam)

	if entry.resolved != nil {
		if err := entry.resolved.Validate(obj); err != nil {
			return nil, &ArgumentParseError{Tool: call.Name, Raw: call.Arguments, Err: err}
		}
	}

	return Args(obj), nil
}

func (r *Registry) logger() logging.Logger {
	if r == nil || r.opts.Logger == nil {
		return logging.NoOpLogger{}
	}
	return r.opts.Logger
}

// execute runs the tool body, converting returned errors and recovered panics
// into *ToolExecutionError.
func execute(t Tool, toolCtx *core.ToolContext, args Args) (result any, err error) {
	name := t.Signature().Name

	defer func() {
		if rec := recover(); rec != nil {
			toolCtx.LogError("tool.call.panic", "tool", name, "recover", rec)
			result = nil
			err = &ToolExecutionError{Tool: name, Err: panicError(rec), Panic: true}
		}
	}()

	result, err = t.Call(toolCtx, args)
	if err != nil {
		var execErr *ToolExecutionError
		if errors.As(err, &execErr) {
			return nil, execErr
		}
		return nil, &ToolExecutionError{Tool: name, Err: err}
	}

	return result, nil
}

// panicError converts a recovered panic value to an error carrying the stack.
func panicError(r any) error { return &panicErr{val: r, stack: debug.Stack()} }

type panicErr struct {
	val   any
	stack []byte
}

func (p *panicErr) Error() string { return fmt.Sprintf("panic: %v", p.val) }
