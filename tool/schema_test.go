package tool

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addDoc = `Adds two numbers.

Args:
    a: first addend
    b: second addend

Returns:
    the sum`

func addSignature() Signature {
	return NewSignature("add", addDoc, Arg[int]("a"), Arg[int]("b"))
}

func TestDerive_AddScenario(t *testing.T) {
	schema, inj, err := Derive(addSignature())
	require.NoError(t, err)

	assert.Equal(t, Injection{}, inj)
	assert.Equal(t, "add", schema.Name)
	assert.Equal(t, "Adds two numbers.", schema.Description)
	assert.Equal(t, []Property{
		{Name: "a", Type: TypeInteger, Description: "first addend"},
		{Name: "b", Type: TypeInteger, Description: "second addend"},
	}, schema.Properties)
	assert.Equal(t, []string{"a", "b"}, schema.Required)

	b, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "add",
		"description": "Adds two numbers.",
		"parameters": {
			"type": "object",
			"properties": {
				"a": {"type": "integer", "description": "first addend"},
				"b": {"type": "integer", "description": "second addend"}
			},
			"required": ["a", "b"]
		}
	}`, string(b))
}

func TestDerive_Deterministic(t *testing.T) {
	sig := NewSignature("lookup", addDoc+"\n", Arg[string]("query"), OptionalArg[int]("limit"), AgentArg(), CallerNameArg())

	first, err := json.Marshal(mustDerive(t, sig))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := json.Marshal(mustDerive(t, sig))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func mustDerive(t *testing.T, sig Signature) Schema {
	t.Helper()
	s, _, err := Derive(sig)
	require.NoError(t, err)
	return s
}

func TestDerive_RequiredSet(t *testing.T) {
	sig := NewSignature("search", "Searches notes.",
		Arg[string]("query"),
		OptionalArg[int]("limit"),
		UntypedArg("tag"),
		OptionalArg[bool]("exact"),
		AgentArg(),
		CallerNameArg(),
	)

	schema, inj, err := Derive(sig)
	require.NoError(t, err)

	assert.Equal(t, []string{"query", "tag"}, schema.Required)
	assert.True(t, inj.Agent)
	assert.True(t, inj.CallerName)

	_, ok := schema.Property(AgentParam)
	assert.False(t, ok, "agent must not be advertised")
	_, ok = schema.Property(CallerNameParam)
	assert.False(t, ok, "agent_name must not be advertised")

	assert.True(t, schema.IsRequired("query"))
	assert.False(t, schema.IsRequired("limit"))

	// Required is a subset of the advertised properties.
	for _, name := range schema.Required {
		_, ok := schema.Property(name)
		assert.True(t, ok, name)
	}
}

func TestDerive_TypeMapping(t *testing.T) {
	type custom struct{}
	sig := NewSignature("types", "",
		Arg[string]("s"),
		Arg[int]("i"),
		Arg[int64]("i64"),
		Arg[uint8]("u8"),
		Arg[float32]("f32"),
		Arg[float64]("f64"),
		Arg[bool]("b"),
		Arg[*int]("pi"),
		Arg[[]string]("list"),
		Arg[map[string]any]("obj"),
		Arg[custom]("c"),
		UntypedArg("none"),
		Param{Name: "nil_type", Type: nil},
		Param{Name: "reflected", Type: reflect.TypeOf(1.5)},
	)

	schema := mustDerive(t, sig)

	want := map[string]ParamType{
		"s": TypeString, "i": TypeInteger, "i64": TypeInteger, "u8": TypeInteger,
		"f32": TypeNumber, "f64": TypeNumber, "b": TypeBoolean, "pi": TypeInteger,
		"list": TypeString, "obj": TypeString, "c": TypeString, "none": TypeString,
		"nil_type": TypeString, "reflected": TypeNumber,
	}
	for name, typ := range want {
		p, ok := schema.Property(name)
		require.True(t, ok, name)
		assert.Equal(t, typ, p.Type, name)
	}
}

func TestDerive_Descriptions(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantDesc  string
		wantParam string
	}{
		{
			name:      "args and returns",
			doc:       "Line one.\n   Line two.  \n\nArgs:\n  x: the x value\n\nReturns:\n  y",
			wantDesc:  "Line one.\nLine two.",
			wantParam: "the x value",
		},
		{
			name:      "returns only",
			doc:       "Does things.\nReturns:\n  x: not a param description",
			wantDesc:  "Does things.",
			wantParam: "not a param description",
		},
		{
			name:      "no args marker searches whole doc",
			doc:       "Summary.\nx: loose description",
			wantDesc:  "Summary.\nx: loose description",
			wantParam: "loose description",
		},
		{
			name:      "whole doc",
			doc:       "\n  Just a summary.\n\n",
			wantDesc:  "Just a summary.",
			wantParam: "",
		},
		{
			name:      "empty doc",
			doc:       "",
			wantDesc:  "",
			wantParam: "",
		},
		{
			name:      "typed google style",
			doc:       "Summary.\n\nArgs:\n    x (int): typed description\n",
			wantDesc:  "Summary.",
			wantParam: "typed description",
		},
		{
			name:      "description outside args block is ignored",
			doc:       "Summary.\n\nArgs:\n    y: other\n\nReturns:\n    x: result",
			wantDesc:  "Summary.",
			wantParam: "",
		},
		{
			name:      "prefix of another name",
			doc:       "Summary.\n\nArgs:\n    xx: wrong one\n    x: right one\n",
			wantDesc:  "Summary.",
			wantParam: "right one",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := mustDerive(t, NewSignature("f", tt.doc, Arg[int]("x")))
			assert.Equal(t, tt.wantDesc, schema.Description)
			p, ok := schema.Property("x")
			require.True(t, ok)
			assert.Equal(t, tt.wantParam, p.Description)
		})
	}
}

func TestDerive_Errors(t *testing.T) {
	tests := []struct {
		name string
		sig  Signature
	}{
		{"empty name", NewSignature("", "doc")},
		{"blank name", NewSignature("  ", "doc")},
		{"empty param", NewSignature("f", "", UntypedArg(""))},
		{"duplicate param", NewSignature("f", "", Arg[int]("a"), Arg[string]("a"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Derive(tt.sig)
			var schemaErr *SchemaError
			assert.True(t, errors.As(err, &schemaErr), "got %v", err)
		})
	}
}

func TestSchema_JSONSchemaAndParameters(t *testing.T) {
	schema := mustDerive(t, addSignature())

	js := schema.JSONSchema()
	assert.Equal(t, "object", js.Type)
	assert.Equal(t, []string{"a", "b"}, js.Required)
	require.Contains(t, js.Properties, "a")
	assert.Equal(t, "integer", js.Properties["a"].Type)
	assert.Equal(t, "first addend", js.Properties["a"].Description)

	params := schema.Parameters()
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []string{"a", "b"}, params["required"])
	props := params["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "integer", "description": "second addend"}, props["b"])
}

func TestSchema_NoParameters(t *testing.T) {
	schema := mustDerive(t, NewSignature("now", "Returns the time."))
	b, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"now","description":"Returns the time.","parameters":{"type":"object","properties":{},"required":[]}}`, string(b))
}
