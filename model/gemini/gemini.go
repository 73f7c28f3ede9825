// Package gemini provides a model.Model backed by the Google Gemini API via
// google.golang.org/genai streaming content generation.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/model"
)

// Options configure the Gemini adapter.
type Options struct {
	// Model should not start with "models/".
	Model  string
	APIKey string
}

// Model wraps a genai client.
type Model struct {
	client *genai.Client
	opts   Options
}

var _ model.Model = (*Model)(nil)

// NewModel creates a Gemini model. The API key falls back to the
// environment variables read by genai when Options.APIKey is empty.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := Options{Model: "gemini-2.0-flash"}
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	return &Model{client: client, opts: opts}, nil
}

// NewModelFromClient creates a Gemini model from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{Model: "gemini-2.0-flash"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate streams one completion. Only the first candidate and its first
// function call are forwarded.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Fragment, <-chan error) {
	out := make(chan model.Fragment, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		cfg, contents := buildConfig(req)
		if len(contents) == 0 {
			errCh <- fmt.Errorf("gemini: no contents")
			return
		}

		name := m.opts.Model
		if req.Engine != "" {
			name = req.Engine
		}

		if err := pull(ctx, m.client.Models.GenerateContentStream(ctx, name, contents, cfg), out); err != nil {
			errCh <- err
		}
	}()

	return out, errCh
}

func pull(ctx context.Context, itr iter.Seq2[*genai.GenerateContentResponse, error], out chan<- model.Fragment) error {
	st := &streamState{}
	for chunk, err := range itr {
		if err != nil {
			return fmt.Errorf("gemini streaming error: %w", err)
		}
		for _, f := range st.fragments(chunk) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- f:
			}
		}
	}
	return nil
}

type streamState struct {
	started bool
	sawCall bool
}

func (s *streamState) fragments(chunk *genai.GenerateContentResponse) []model.Fragment {
	if chunk == nil || len(chunk.Candidates) == 0 {
		return nil
	}
	cand := chunk.Candidates[0]
	if cand.Content == nil {
		return nil
	}

	var frags []model.Fragment
	if !s.started {
		s.started = true
		frags = append(frags, model.RoleFragment(core.RoleAssistant))
	}

	for _, p := range cand.Content.Parts {
		switch {
		case p.Text != "" && !p.Thought:
			frags = append(frags, model.ContentFragment(p.Text))
		case p.FunctionCall != nil && !s.sawCall:
			s.sawCall = true
			args := "{}"
			if len(p.FunctionCall.Args) > 0 {
				if b, err := json.Marshal(p.FunctionCall.Args); err == nil {
					args = string(b)
				}
			}
			id := p.FunctionCall.ID
			if id == "" {
				id = core.NewID()
			}
			frags = append(frags, model.ToolCallFragment(id, p.FunctionCall.Name, args))
		}
	}

	return frags
}

// buildConfig converts the request into a generation config plus the
// conversation contents. System messages become the system instruction.
func buildConfig(req model.Request) (*genai.GenerateContentConfig, []*genai.Content) {
	cfg := &genai.GenerateContentConfig{}

	var system []*genai.Part
	for _, msg := range req.Messages {
		if msg.Role == core.RoleSystem && msg.Content != "" {
			system = append(system, genai.NewPartFromText(msg.Content))
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: system}
	}

	s := req.Sampling
	if s.Temperature != nil {
		t := float32(*s.Temperature)
		cfg.Temperature = &t
	}
	if s.TopP != nil {
		p := float32(*s.TopP)
		cfg.TopP = &p
	}
	if s.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(s.MaxTokens)
	}
	cfg.StopSequences = s.Stop

	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, len(req.Tools))
		for i, def := range req.Tools {
			decls[i] = &genai.FunctionDeclaration{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  convSchema(def.Parameters),
			}
		}
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
		if req.ToolChoice == model.ToolChoiceAuto {
			cfg.ToolConfig = &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingConfigModeAuto},
			}
		}
	}

	return cfg, convMessages(req.Messages)
}

// convMessages maps memory onto Gemini's user/model turns, merging
// consecutive messages of the same side.
func convMessages(msgs []core.Message) []*genai.Content {
	var (
		contents []*genai.Content
		last     *genai.Content
	)

	for _, msg := range model.ClosePendingToolCalls(msgs) {
		var (
			role string
			part *genai.Part
		)

		switch msg.Role {
		case core.RoleSystem:
			continue
		case core.RoleAssistant:
			role = "model"
			if msg.ToolCall != nil {
				part = &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   msg.ToolCall.ID,
					Name: msg.ToolCall.Name,
					Args: objectOr(msg.ToolCall.Arguments, "text"),
				}}
			} else {
				part = genai.NewPartFromText(msg.Content)
			}
		case core.RoleTool:
			role = "user"
			part = &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       msg.ToolCallID,
				Name:     msg.ToolName,
				Response: objectOr(msg.Content, "output"),
			}}
		default:
			role = "user"
			part = genai.NewPartFromText(msg.Content)
		}

		if last != nil && last.Role == role {
			last.Parts = append(last.Parts, part)
			continue
		}
		last = &genai.Content{Role: role, Parts: []*genai.Part{part}}
		contents = append(contents, last)
	}

	return contents
}

// objectOr decodes raw as a JSON object, or wraps the decoded value (or the
// raw text) under key.
func objectOr(raw, key string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj != nil {
		return obj
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return map[string]any{key: v}
	}
	return map[string]any{key: raw}
}

func convSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	gs := genai.Schema{
		Format:      schema.Format,
		Description: schema.Description,
		Items:       convSchema(schema.Items),
		Required:    schema.Required,
	}
	for _, v := range schema.Enum {
		gs.Enum = append(gs.Enum, fmt.Sprintf("%v", v))
	}

	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = convSchema(prop)
		}
	}

	switch schema.Type {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	default:
		gs.Type = genai.TypeString
	}

	return &gs
}

// Info returns metadata describing this adapter.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "gemini",
		SupportsTools: true,
	}
}
