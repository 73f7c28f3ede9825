// Package compat provides a model.Model for OpenAI-compatible servers using
// the legacy functions API: tool definitions travel as "functions" with
// function_call "auto", tool results as "function" role messages. Many local
// and self-hosted servers only speak this shape.
package compat

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/model"
)

// Options configure the compat adapter.
type Options struct {
	Model   string
	APIKey  string
	BaseURL string
}

// Model drives an OpenAI-compatible chat completion endpoint.
type Model struct {
	client *openai.Client
	opts   Options
}

var _ model.Model = (*Model)(nil)

// NewModel creates a compat model. BaseURL defaults to the OpenAI endpoint.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{Model: openai.GPT4oMini}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	return &Model{client: openai.NewClientWithConfig(cfg), opts: opts}
}

// NewModelFromClient creates a compat model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{Model: openai.GPT4oMini}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate streams one chat completion. Only the first choice is consumed.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Fragment, <-chan error) {
	out := make(chan model.Fragment, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		stream, err := m.client.CreateChatCompletionStream(ctx, m.buildRequest(req))
		if err != nil {
			errCh <- fmt.Errorf("compat api error: %w", err)
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errCh <- fmt.Errorf("compat streaming error: %w", err)
				return
			}

			for _, f := range deltaFragments(resp) {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case out <- f:
				}
			}
		}
	}()

	return out, errCh
}

func (m *Model) buildRequest(req model.Request) openai.ChatCompletionRequest {
	r := openai.ChatCompletionRequest{
		Model:    m.opts.Model,
		Messages: buildMessages(req.Messages),
		Stream:   true,
	}
	if req.Engine != "" {
		r.Model = req.Engine
	}

	s := req.Sampling
	if s.Temperature != nil {
		r.Temperature = float32(*s.Temperature)
	}
	if s.TopP != nil {
		r.TopP = float32(*s.TopP)
	}
	if s.MaxTokens > 0 {
		r.MaxTokens = int(s.MaxTokens)
	}
	r.Stop = s.Stop

	if len(req.Tools) == 0 {
		return r
	}

	r.Functions = make([]openai.FunctionDefinition, len(req.Tools))
	for i, def := range req.Tools {
		r.Functions[i] = openai.FunctionDefinition{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.ParametersMap(),
		}
	}
	if req.ToolChoice != "" {
		r.FunctionCall = req.ToolChoice
	}

	return r
}

func buildMessages(msgs []core.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))

	for _, msg := range msgs {
		cm := openai.ChatCompletionMessage{Content: msg.Content}

		switch msg.Role {
		case core.RoleSystem:
			cm.Role = openai.ChatMessageRoleSystem
		case core.RoleAssistant:
			cm.Role = openai.ChatMessageRoleAssistant
			if msg.ToolCall != nil {
				cm.FunctionCall = &openai.FunctionCall{
					Name:      msg.ToolCall.Name,
					Arguments: msg.ToolCall.Arguments,
				}
			}
		case core.RoleTool:
			cm.Role = openai.ChatMessageRoleFunction
			cm.Name = msg.ToolName
		default:
			cm.Role = openai.ChatMessageRoleUser
		}

		out = append(out, cm)
	}

	return out
}

// deltaFragments translates the first choice of a stream response. The
// legacy function_call delta is preferred; servers that answer with tool_calls
// instead are honored for the first call.
func deltaFragments(resp openai.ChatCompletionStreamResponse) []model.Fragment {
	if len(resp.Choices) == 0 {
		return nil
	}

	delta := resp.Choices[0].Delta

	var frags []model.Fragment
	if delta.Role != "" {
		frags = append(frags, model.RoleFragment(core.Role(delta.Role)))
	}
	if delta.Content != "" {
		frags = append(frags, model.ContentFragment(delta.Content))
	}

	if fc := delta.FunctionCall; fc != nil {
		frags = append(frags, callDelta("", fc.Name, fc.Arguments))
		return frags
	}

	for _, tc := range delta.ToolCalls {
		if tc.Index != nil && *tc.Index != 0 {
			continue
		}
		frags = append(frags, callDelta(tc.ID, tc.Function.Name, tc.Function.Arguments))
	}

	return frags
}

func callDelta(id, name, args string) model.Fragment {
	d := &model.ToolCallDelta{}
	if id != "" {
		d.ID = &id
	}
	if name != "" {
		d.Name = &name
	}
	if args != "" {
		d.Arguments = &args
	}
	return model.Fragment{ToolCall: d}
}

// Info returns metadata describing this adapter.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "compat",
		SupportsTools: true,
	}
}
