package tool

import "reflect"

// Reserved parameter names. A parameter with one of these names is never shown
// to the model; the dispatcher fills it in instead.
const (
	AgentParam      = "agent"
	CallerNameParam = "agent_name"
)

// Param declares one parameter of a tool signature.
//
// Type is the Go type the parameter is annotated with; nil means the parameter
// carries no annotation. Optional parameters have a default value on the tool
// side and are therefore not required from the model.
type Param struct {
	Name     string
	Type     reflect.Type
	Optional bool
}

// Signature is the static declaration a tool is registered with: its name, its
// documentation text and its ordered parameters.
//
// The documentation follows the common docstring layout:
//
//	Adds two numbers.
//
//	Args:
//	    a: first addend
//	    b: second addend
//
//	Returns:
//	    the sum
type Signature struct {
	Name   string
	Doc    string
	Params []Param
}

// Arg declares a required parameter annotated with T.
func Arg[T any](name string) Param {
	return Param{Name: name, Type: reflect.TypeFor[T]()}
}

// OptionalArg declares a parameter annotated with T that has a default.
func OptionalArg[T any](name string) Param {
	return Param{Name: name, Type: reflect.TypeFor[T](), Optional: true}
}

// UntypedArg declares a required parameter with no annotation.
func UntypedArg(name string) Param {
	return Param{Name: name}
}

// AgentArg declares the injected agent handle parameter.
func AgentArg() Param {
	return Param{Name: AgentParam}
}

// CallerNameArg declares the injected caller name parameter.
func CallerNameArg() Param {
	return Param{Name: CallerNameParam, Type: reflect.TypeFor[string]()}
}

// NewSignature is a small convenience for building a Signature inline.
func NewSignature(name, doc string, params ...Param) Signature {
	return Signature{Name: name, Doc: doc, Params: params}
}
