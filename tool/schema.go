package tool

import (
	"encoding/json"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// ParamType is the JSON type a parameter is advertised with.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

// Property is one advertised parameter.
type Property struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
}

// Schema is the model-facing description of a tool.
// Properties keep declaration order; Required lists the names of parameters
// without a default, in declaration order.
type Schema struct {
	Name        string
	Description string
	Properties  []Property
	Required    []string
}

// Injection records which reserved parameters a tool declared.
type Injection struct {
	Agent      bool
	CallerName bool
}

// Property returns the property with the given name.
func (s Schema) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// IsRequired reports whether name is in the required set.
func (s Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// JSONSchema renders the argument object as a JSON schema.
func (s Schema) JSONSchema() *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = &jsonschema.Schema{Type: string(p.Type), Description: p.Description}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   slices.Clone(s.Required),
	}
}

type wireProperty struct {
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
}

type wireParameters struct {
	Type       string                  `json:"type"`
	Properties map[string]wireProperty `json:"properties"`
	Required   []string                `json:"required"`
}

type wireSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  wireParameters `json:"parameters"`
}

func (s Schema) wire() wireSchema {
	props := make(map[string]wireProperty, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = wireProperty{Type: p.Type, Description: p.Description}
	}
	req := s.Required
	if req == nil {
		req = []string{}
	}
	return wireSchema{
		Name:        s.Name,
		Description: s.Description,
		Parameters:  wireParameters{Type: "object", Properties: props, Required: req},
	}
}

// Parameters renders the argument object as a generic JSON object with
// "type", "properties" and "required" keys. Descriptions are always present.
func (s Schema) Parameters() map[string]any {
	w := s.wire().Parameters
	props := make(map[string]any, len(w.Properties))
	for name, p := range w.Properties {
		props[name] = map[string]any{"type": string(p.Type), "description": p.Description}
	}
	return map[string]any{
		"type":       w.Type,
		"properties": props,
		"required":   slices.Clone(w.Required),
	}
}

// MarshalJSON renders {"name", "description", "parameters"}. The output is
// byte-identical for equal schemas.
func (s Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

// Derive builds the model-facing schema for sig.
//
// Reserved parameters (agent, agent_name) are left out of the schema and
// reported through the returned Injection. Parameters without a default are
// required. The tool description and per-parameter descriptions are parsed
// from sig.Doc.
func Derive(sig Signature) (Schema, Injection, error) {
	if strings.TrimSpace(sig.Name) == "" {
		return Schema{}, Injection{}, &SchemaError{Tool: sig.Name, Message: "tool name is empty"}
	}

	var (
		inj    Injection
		schema = Schema{Name: sig.Name, Description: describeTool(sig.Doc)}
		seen   = make(map[string]bool, len(sig.Params))
		args   = argsBlock(sig.Doc)
	)

	for _, p := range sig.Params {
		if p.Name == "" {
			return Schema{}, Injection{}, &SchemaError{Tool: sig.Name, Message: "parameter name is empty"}
		}
		if seen[p.Name] {
			return Schema{}, Injection{}, &SchemaError{Tool: sig.Name, Message: "duplicate parameter " + p.Name}
		}
		seen[p.Name] = true

		switch p.Name {
		case AgentParam:
			inj.Agent = true
			continue
		case CallerNameParam:
			inj.CallerName = true
			continue
		}

		schema.Properties = append(schema.Properties, Property{
			Name:        p.Name,
			Type:        jsonType(p.Type),
			Description: describeParam(args, p.Name),
		})
		if !p.Optional {
			schema.Required = append(schema.Required, p.Name)
		}
	}

	return schema, inj, nil
}

// jsonType maps a Go annotation to an advertised type. Anything that is not a
// string, integer, float or bool (including no annotation) is a string.
func jsonType(t reflect.Type) ParamType {
	if t == nil {
		return TypeString
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Bool:
		return TypeBoolean
	default:
		return TypeString
	}
}

const (
	argsMarker    = "Args:"
	returnsMarker = "Returns:"
)

// describeTool returns the summary part of doc: the text before "Args:" if
// present, else before "Returns:" if present, else all of it. Lines are
// trimmed and blank lines dropped.
func describeTool(doc string) string {
	head := doc
	if i := strings.Index(doc, argsMarker); i >= 0 {
		head = doc[:i]
	} else if i := strings.Index(doc, returnsMarker); i >= 0 {
		head = doc[:i]
	}

	var lines []string
	for _, line := range strings.Split(head, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// argsBlock returns the text between "Args:" and "Returns:" (or the end of
// doc). Without an "Args:" marker the whole doc is searched.
func argsBlock(doc string) string {
	i := strings.Index(doc, argsMarker)
	if i < 0 {
		return doc
	}
	block := doc[i+len(argsMarker):]
	if j := strings.Index(block, returnsMarker); j >= 0 {
		block = block[:j]
	}
	return block
}

// describeParam finds a line of the form "<name>: text" or
// "<name> (type): text" and returns the trimmed text.
func describeParam(block, name string) string {
	re := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(name) + `(?:[ \t]*\([^)\n]*\))?[ \t]*:(.*)$`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
