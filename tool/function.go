package tool

import (
	"fmt"
	"reflect"

	"github.com/hupe1980/thinkact/core"
	"github.com/hupe1980/thinkact/internal/util"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// Responsibilities:
//   - Holds the static Signature the registry derives the schema from
//   - Invokes the wrapped function with a *core.ToolContext and the argument
//     mapping (already parsed, validated and enriched with injected values)
//
// Concurrency:
//
//	A FunctionTool has no internal mutable state after construction and is safe for
//	concurrent use by multiple goroutines.
//
// A FunctionTool is also a Toolset of itself, so it can be registered directly.
type FunctionTool struct {
	sig Signature
	fn  func(toolCtx *core.ToolContext, args Args) (any, error)
}

// NewFunctionTool constructs a FunctionTool from an explicit signature.
//
// Example:
//
//	add := tool.NewFunctionTool(
//	  tool.NewSignature("add", `Adds two numbers.
//
//	  Args:
//	      a: first addend
//	      b: second addend`,
//	    tool.Arg[int]("a"),
//	    tool.Arg[int]("b"),
//	  ),
//	  func(_ *core.ToolContext, args tool.Args) (any, error) {
//	    return args.Int("a") + args.Int("b"), nil
//	  },
//	)
func NewFunctionTool(sig Signature, fn func(toolCtx *core.ToolContext, args Args) (any, error)) *FunctionTool {
	return &FunctionTool{sig: sig, fn: fn}
}

// NewFunc derives the signature from the fields of the argument struct T and
// binds each call's mapping into a T before invoking fn.
//
// Field rules: the json tag names the parameter; omitempty, pointer fields and
// fields with a `default:"..."` tag are optional (the default is applied when
// the model omits the value); fields tagged `tool:"agent"` or
// `tool:"agent_name"` receive the injected agent handle or caller name.
//
// Example:
//
//	type addArgs struct {
//	  A int `json:"a"`
//	  B int `json:"b"`
//	}
//
//	add, _ := tool.NewFunc("add", "Adds two numbers.", func(_ *core.ToolContext, in addArgs) (any, error) {
//	  return in.A + in.B, nil
//	})
func NewFunc[T any](name, doc string, fn func(toolCtx *core.ToolContext, in T) (any, error)) (*FunctionTool, error) {
	fields, err := util.StructFields(reflect.TypeFor[T]())
	if err != nil {
		return nil, &SchemaError{Tool: name, Message: err.Error()}
	}

	params := make([]Param, 0, len(fields))
	for _, f := range fields {
		switch f.Inject {
		case "":
			params = append(params, Param{Name: f.Name, Type: f.Type, Optional: f.Optional})
		case AgentParam, CallerNameParam:
			params = append(params, Param{Name: f.Inject, Type: f.Type})
		default:
			return nil, &SchemaError{Tool: name, Message: fmt.Sprintf("unknown injection %q", f.Inject)}
		}
	}

	return NewFunctionTool(NewSignature(name, doc, params...), func(tc *core.ToolContext, args Args) (any, error) {
		var in T
		if err := args.Decode(&in); err != nil {
			return nil, err
		}
		return fn(tc, in)
	}), nil
}

// MustFunc is like NewFunc but panics on error. Intended for package level
// tool declarations.
func MustFunc[T any](name, doc string, fn func(toolCtx *core.ToolContext, in T) (any, error)) *FunctionTool {
	t, err := NewFunc(name, doc, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// Signature implements Tool.
func (t *FunctionTool) Signature() Signature { return t.sig }

// Name returns the tool name.
func (t *FunctionTool) Name() string { return t.sig.Name }

// Call implements Tool.
func (t *FunctionTool) Call(toolCtx *core.ToolContext, args Args) (any, error) {
	return t.fn(toolCtx, args)
}

// Tools implements Toolset.
func (t *FunctionTool) Tools() []Tool { return []Tool{t} }
