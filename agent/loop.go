package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/model"
	"github.com/hupe1980/thinkact/tool"
)

// ThinkAndAct runs the think-act loop.
//
// Every iteration makes exactly one model call. When the reply carries a tool
// call, the reply is appended to memory, the tool is dispatched and its
// serialized result appended as a tool message, and the loop continues. When
// the reply carries no tool call the loop ends; the reply is appended only if
// SurfacePlainMessages is set. After MaxToolIterations model calls the loop
// returns without error even if the last reply requested a tool.
//
// A transport failure aborts the loop and is returned wrapped; memory then
// holds exactly the appends completed before the failing call.
func (a *Agent) ThinkAndAct(ctx context.Context) error {
	defs := a.registry.Definitions()

	for i := 1; i <= a.maxToolIterations; i++ {
		msg, err := a.think(ctx, i, defs)
		if err != nil {
			return fmt.Errorf("think and act: model call %d: %w", i, err)
		}

		if !msg.HasToolCall() {
			if a.surfacePlainMessages {
				a.memory.Append(msg)
			}
			a.logger.Debug("agent.turn.complete", "agent", a.name, "iterations", i, "recorded", a.surfacePlainMessages)
			return nil
		}

		a.act(ctx, msg)
	}

	a.logger.Warn("agent.iterations.exhausted", "agent", a.name, "max", a.maxToolIterations)

	return nil
}

// think makes one model call over the current effective memory.
func (a *Agent) think(ctx context.Context, iteration int, defs []model.ToolDefinition) (core.Message, error) {
	req := model.Request{
		Engine:   a.engine,
		Messages: a.memory.Effective(),
		Sampling: a.sampling,
	}
	if len(defs) > 0 {
		req.Tools = defs
		req.ToolChoice = a.toolChoice
	}

	start := time.Now()
	a.logger.Debug("agent.model.call", "agent", a.name, "iteration", iteration, "messages", len(req.Messages), "tools", len(defs))

	frags, errs := a.llm.Generate(ctx, req)
	msg, err := model.Accumulate(ctx, frags, errs, a.output)
	if err != nil {
		a.logger.Error("agent.model.error", "agent", a.name, "iteration", iteration, "error", err.Error())
		return core.Message{}, err
	}

	if msg.Role == "" {
		msg.Role = core.RoleAssistant
	}
	reply := msg.Clone()
	a.setReply(&reply)

	a.logger.Info("agent.model.reply", "agent", a.name, "iteration", iteration,
		"tool_call", msg.HasToolCall(), "duration_ms", time.Since(start).Milliseconds())

	return msg, nil
}

// act records the tool-call reply, dispatches it and records the result.
func (a *Agent) act(ctx context.Context, msg core.Message) {
	if msg.ToolCall.ID == "" {
		msg.ToolCall.ID = core.NewID()
	}
	call := *msg.ToolCall

	a.memory.Append(msg)

	out := a.registry.Invoke(ctx, call, a, a.name)

	a.logger.Info("agent.tool.executed", "agent", a.name, "tool", call.Name, "fc_id", call.ID,
		"duration_ms", out.Duration.Milliseconds(), "error", out.Err != nil)

	a.memory.Append(core.NewToolMessage(call.Name, call.ID, tool.Serialize(out.Result())))
}
