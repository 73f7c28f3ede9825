package model

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/hupe1980/thinkact/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is the JSON schema of the argument object.
type ToolDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// ParametersMap renders Parameters as a generic JSON object, the shape most
// provider SDKs accept for function parameters.
func (d ToolDefinition) ParametersMap() map[string]any {
	out := map[string]any{"type": "object", "properties": map[string]any{}}
	if d.Parameters == nil {
		return out
	}

	b, err := json.Marshal(d.Parameters)
	if err != nil {
		return out
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return out
	}

	if _, ok := m["properties"]; !ok {
		m["properties"] = map[string]any{}
	}
	if _, ok := m["required"]; !ok {
		m["required"] = []string{}
	}

	return m
}

// Sampling carries optional sampling parameters forwarded to the provider.
// Nil / zero fields are left to the provider default.
type Sampling struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	MaxTokens   int64    `json:"max_tokens,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// ToolChoiceAuto lets the model decide whether to call a tool.
const ToolChoiceAuto = "auto"

// Request captures the normalized model input built by the agent loop.
//
// Tools and ToolChoice are set only when the agent has tools registered;
// transports must omit both from the wire request otherwise.
type Request struct {
	Engine     string           `json:"engine,omitempty"`
	Messages   []core.Message   `json:"messages"`
	Tools      []ToolDefinition `json:"tools,omitempty"`
	ToolChoice string           `json:"tool_choice,omitempty"`
	Sampling   Sampling         `json:"sampling"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "gemini", "compat", "scripted"
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the streaming transport the agent loop drives.
//
// Generate starts one completion and returns a fragment channel and an error
// channel. Implementations must close both channels when the completion ends
// and send at most one error. A completion that fails part way must report the
// failure on the error channel; consumers discard any fragments received.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Fragment, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Float returns a pointer to v, handy for Sampling fields.
func Float(v float64) *float64 { return &v }
