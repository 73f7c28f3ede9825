// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions streaming API with tool calling. It adapts the normalized
// Request into the SDK's message format and translates streamed chunks back
// into fragments.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/model"
)

// Options configure the OpenAI model adapter.
// Fields mirror a subset of Chat Completion parameters; per-request Sampling
// values take precedence.
type Options struct {
	Model               string
	APIKey              string
	BaseURL             string
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

var _ model.Model = (*Model)(nil)

// NewModel creates a new OpenAI model using the official client. The API key
// falls back to OPENAI_API_KEY when Options.APIKey is empty.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := openai.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 4096,
	}
}

// Generate streams one chat completion. Only the first choice is consumed.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Fragment, <-chan error) {
	out := make(chan model.Fragment, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := m.buildParams(req)
		stream := m.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			for _, f := range chunkFragments(stream.Current()) {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case out <- f:
				}
			}
		}

		if err := stream.Err(); err != nil {
			errCh <- fmt.Errorf("openai streaming error: %w", err)
		}
	}()

	return out, errCh
}

// buildParams assembles the OpenAI request parameters including tool definitions.
func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages: buildMessages(req.Messages),
		Model:    m.opts.Model,
	}
	if req.Engine != "" {
		params.Model = req.Engine
	}

	s := req.Sampling
	if s.Temperature != nil {
		params.Temperature = openai.Float(*s.Temperature)
	}
	if s.TopP != nil {
		params.TopP = openai.Float(*s.TopP)
	}
	switch {
	case s.MaxTokens > 0:
		params.MaxCompletionTokens = openai.Int(s.MaxTokens)
	case m.opts.MaxCompletionTokens > 0:
		params.MaxCompletionTokens = openai.Int(m.opts.MaxCompletionTokens)
	}
	if len(s.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: s.Stop}
	}

	if len(req.Tools) == 0 {
		return params
	}

	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, def := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(def.ParametersMap()),
			},
		}
	}
	params.Tools = tools

	if req.ToolChoice != "" {
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: param.NewOpt(req.ToolChoice),
		}
	}

	return params
}

// buildMessages converts memory messages into OpenAI chat messages.
func buildMessages(msgs []core.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))

	for _, msg := range model.ClosePendingToolCalls(msgs) {
		switch msg.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case core.RoleAssistant:
			if msg.ToolCall == nil {
				out = append(out, openai.AssistantMessage(msg.Content))
				continue
			}
			am := &openai.ChatCompletionAssistantMessageParam{
				ToolCalls: []openai.ChatCompletionMessageToolCallParam{{
					ID: msg.ToolCall.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      msg.ToolCall.Name,
						Arguments: msg.ToolCall.Arguments,
					},
				}},
			}
			if msg.Content != "" {
				am.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: param.NewOpt(msg.Content),
				}
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: am})
		case core.RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}

	return out
}

// chunkFragments translates the first choice of a streamed chunk. Only the
// first tool call of a delta is forwarded.
func chunkFragments(chunk openai.ChatCompletionChunk) []model.Fragment {
	if len(chunk.Choices) == 0 {
		return nil
	}

	delta := chunk.Choices[0].Delta

	var frags []model.Fragment
	if delta.Role != "" {
		frags = append(frags, model.RoleFragment(core.Role(delta.Role)))
	}
	if delta.Content != "" {
		frags = append(frags, model.ContentFragment(delta.Content))
	}

	for _, tc := range delta.ToolCalls {
		if tc.Index != 0 {
			continue
		}
		d := &model.ToolCallDelta{}
		if tc.ID != "" {
			d.ID = &tc.ID
		}
		if tc.Function.Name != "" {
			d.Name = &tc.Function.Name
		}
		if tc.Function.Arguments != "" {
			d.Arguments = &tc.Function.Arguments
		}
		frags = append(frags, model.Fragment{ToolCall: d})
	}

	return frags
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}
