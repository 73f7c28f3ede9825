// Package tool implements the function / tool calling subsystem that lets an
// agent invoke plain Go functions on behalf of the model: schema derivation
// from declared signatures, a name-keyed registry, argument parsing and
// contained dispatch with uniform error results.
package tool

import (
	"fmt"
	"math"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/internal/util"
)

// Tool is a callable capability exposed to the model.
//
// Signature declares the tool's name, documentation and parameters; the
// registry derives the model-facing schema from it. Call receives the parsed
// argument mapping (plus injected agent / caller name values when the
// signature asks for them) and returns any JSON serializable value.
type Tool interface {
	Signature() Signature
	Call(toolCtx *core.ToolContext, args Args) (any, error)
}

// Toolset is anything exposing a group of tools: a single function tool, a
// Set, or a stateful object whose methods are offered to the model.
type Toolset interface {
	Tools() []Tool
}

// Set is a Toolset made of an explicit list of tools.
type Set []Tool

// NewSet groups tools into a Toolset.
func NewSet(tools ...Tool) Set { return Set(tools) }

// Tools implements Toolset.
func (s Set) Tools() []Tool { return s }

// Args is the argument mapping handed to a tool.
type Args map[string]any

// Has reports whether key is present.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns the value under key as a string. Non-string values are
// formatted with fmt; a missing key yields "".
func (a Args) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the value under key as an int, or 0.
func (a Args) Int(key string) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(math.Round(v))
	default:
		return 0
	}
}

// IntOr returns the value under key as an int, or def when absent.
func (a Args) IntOr(key string, def int) int {
	if !a.Has(key) {
		return def
	}
	return a.Int(key)
}

// Float returns the value under key as a float64, or 0.
func (a Args) Float(key string) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Bool returns the value under key as a bool, or false.
func (a Args) Bool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

// Agent returns the injected agent handle, if the signature requested it.
func (a Args) Agent() core.Agent {
	ag, _ := a[AgentParam].(core.Agent)
	return ag
}

// CallerName returns the injected caller name, if the signature requested it.
func (a Args) CallerName() string {
	s, _ := a[CallerNameParam].(string)
	return s
}

// Decode binds the mapping into the struct pointed to by dst. Fields tagged
// `tool:"agent"` / `tool:"agent_name"` receive the injected values.
func (a Args) Decode(dst any) error {
	return util.Bind(a, dst, AgentParam, CallerNameParam)
}
