// Package anthropic provides a model wrapper for the Anthropic Claude
// Messages API with streaming tool use.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/model"
)

// Options configures the Anthropic model adapter (model id, max tokens, API
// key). Per-request Sampling values take precedence.
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
	BaseURL   string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

var _ model.Model = (*Model)(nil)

// NewModel creates a new Anthropic model using the official client. The API
// key falls back to ANTHROPIC_API_KEY when Options.APIKey is empty.
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

	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 4096,
	}
}

// Generate streams one message. Only the first tool_use block is forwarded.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Fragment, <-chan error) {
	out := make(chan model.Fragment, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		stream := m.client.Messages.NewStreaming(ctx, m.buildParams(req))
		defer stream.Close()

		st := &streamState{toolIndex: -1}
		for stream.Next() {
			for _, f := range st.fragments(stream.Current()) {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case out <- f:
				}
			}
		}

		if err := stream.Err(); err != nil {
			errCh <- fmt.Errorf("anthropic streaming error: %w", err)
		}
	}()

	return out, errCh
}

// streamState remembers which content block carries the forwarded tool call.
type streamState struct {
	toolIndex int64
}

func (s *streamState) fragments(ev anthropic.MessageStreamEventUnion) []model.Fragment {
	switch ev.Type {
	case "message_start":
		return []model.Fragment{model.RoleFragment(core.RoleAssistant)}
	case "content_block_start":
		start := ev.AsContentBlockStart()
		if start.ContentBlock.Type != "tool_use" || s.toolIndex >= 0 {
			return nil
		}
		s.toolIndex = start.Index
		return []model.Fragment{model.ToolCallFragment(start.ContentBlock.ID, start.ContentBlock.Name, "")}
	case "content_block_delta":
		delta := ev.AsContentBlockDelta()
		switch delta.Delta.Type {
		case "text_delta":
			if delta.Delta.Text == "" {
				return nil
			}
			return []model.Fragment{model.ContentFragment(delta.Delta.Text)}
		case "input_json_delta":
			if delta.Index != s.toolIndex || delta.Delta.PartialJSON == "" {
				return nil
			}
			return []model.Fragment{model.ToolArgumentsFragment(delta.Delta.PartialJSON)}
		}
	}
	return nil
}

// buildParams assembles the Anthropic request. System messages are lifted
// into the system prompt.
func (m *Model) buildParams(req model.Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     m.opts.Model,
		Messages:  buildMessages(req.Messages),
		MaxTokens: m.opts.MaxTokens,
	}
	if req.Engine != "" {
		params.Model = anthropic.Model(req.Engine)
	}

	if system := extractSystem(req.Messages); len(system) > 0 {
		params.System = system
	}

	s := req.Sampling
	if s.Temperature != nil {
		params.Temperature = anthropic.Float(*s.Temperature)
	}
	if s.TopP != nil {
		params.TopP = anthropic.Float(*s.TopP)
	}
	if s.MaxTokens > 0 {
		params.MaxTokens = s.MaxTokens
	}
	if len(s.Stop) > 0 {
		params.StopSequences = s.Stop
	}

	if len(req.Tools) > 0 {
		params.Tools = buildTools(req.Tools)
		if req.ToolChoice == model.ToolChoiceAuto {
			params.ToolChoice = anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
		}
	}

	return params
}

func extractSystem(msgs []core.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, msg := range msgs {
		if msg.Role == core.RoleSystem && msg.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: msg.Content})
		}
	}
	return blocks
}

// buildMessages converts memory messages to Anthropic's alternating format.
// Tool results travel as tool_result blocks inside user messages, and
// consecutive messages of the same side are merged.
func buildMessages(msgs []core.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam

	push := func(role anthropic.MessageParamRole, blocks ...anthropic.ContentBlockParamUnion) {
		if len(blocks) == 0 {
			return
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content = append(out[n-1].Content, blocks...)
			return
		}
		out = append(out, anthropic.MessageParam{Role: role, Content: blocks})
	}

	for _, msg := range model.ClosePendingToolCalls(msgs) {
		switch msg.Role {
		case core.RoleSystem:
			continue
		case core.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
			}
			if msg.ToolCall != nil {
				blocks = append(blocks, anthropic.NewToolUseBlock(msg.ToolCall.ID, toolInput(msg.ToolCall.Arguments), msg.ToolCall.Name))
			}
			push(anthropic.MessageParamRoleAssistant, blocks...)
		case core.RoleTool:
			push(anthropic.MessageParamRoleUser, anthropic.NewToolResultBlock(msg.ToolCallID, msg.Content, false))
		default:
			if msg.Content != "" {
				push(anthropic.MessageParamRoleUser, anthropic.NewTextBlock(msg.Content))
			}
		}
	}

	return out
}

// toolInput parses recorded arguments back into an object; the API rejects
// anything else.
func toolInput(raw string) any {
	var input map[string]any
	if err := json.Unmarshal([]byte(raw), &input); err != nil || input == nil {
		return map[string]any{}
	}
	return input
}

// buildTools converts tool definitions to Anthropic tool format.
func buildTools(defs []model.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, len(defs))

	for i, def := range defs {
		params := def.ParametersMap()

		inputSchema := anthropic.ToolInputSchemaParam{
			Type:       constant.Object("object"),
			Properties: params["properties"],
		}
		switch req := params["required"].(type) {
		case []string:
			inputSchema.Required = req
		case []any:
			for _, r := range req {
				if s, ok := r.(string); ok {
					inputSchema.Required = append(inputSchema.Required, s)
				}
			}
		}

		tools[i] = anthropic.ToolUnionParamOfTool(inputSchema, def.Name)
		if def.Description != "" {
			tools[i].OfTool.Description = anthropic.String(def.Description)
		}
	}

	return tools
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}
