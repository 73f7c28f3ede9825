package tool

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/hupe1980/thinkact/logging"
	"github.com/hupe1980/thinkact/model"
)

// Entry is a registered tool with its derived schema.
type Entry struct {
	Tool      Tool
	Schema    Schema
	Injection Injection
	resolved  *jsonschema.Resolved
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// RepairArguments runs malformed argument JSON through a lenient repair
	// pass before giving up.
	RepairArguments bool
	Logger          logging.Logger
}

// Registry maps tool names to tools. It is immutable after construction and
// safe for concurrent use.
type Registry struct {
	entries map[string]*Entry
	order   []string
	opts    RegistryOptions
}

// NewRegistry collects every tool from sources and derives its schema.
// Construction fails with a *RegistrationError if a source is nil or exposes
// no tools, if a schema cannot be derived, or if two tools share a name. No
// partially built registry is ever returned.
func NewRegistry(sources []Toolset, optFns ...func(o *RegistryOptions)) (*Registry, error) {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	r := &Registry{entries: map[string]*Entry{}, opts: opts}

	for i, src := range sources {
		if src == nil {
			return nil, &RegistrationError{Message: fmt.Sprintf("tool source %d is nil", i)}
		}

		tools := src.Tools()
		if len(tools) == 0 {
			return nil, &RegistrationError{Message: fmt.Sprintf("tool source %d (%T) is not agent callable: it exposes no tools", i, src)}
		}

		for _, t := range tools {
			if err := r.add(t); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

func (r *Registry) add(t Tool) error {
	if t == nil {
		return &RegistrationError{Message: "nil tool"}
	}

	sig := t.Signature()

	schema, inj, err := Derive(sig)
	if err != nil {
		return &RegistrationError{Tool: sig.Name, Err: err}
	}

	if _, dup := r.entries[schema.Name]; dup {
		return &RegistrationError{
			Tool: schema.Name,
			Err:  &SchemaError{Tool: schema.Name, Message: fmt.Sprintf("function %s already registered", schema.Name)},
		}
	}

	resolved, err := schema.JSONSchema().Resolve(nil)
	if err != nil {
		return &RegistrationError{Tool: schema.Name, Message: "resolve schema", Err: err}
	}

	r.entries[schema.Name] = &Entry{Tool: t, Schema: schema, Injection: inj, resolved: resolved}
	r.order = append(r.order, schema.Name)

	r.opts.Logger.Debug("tool.registry.registered", "tool", schema.Name, "params", len(schema.Properties))

	return nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	if r == nil {
		return nil, false
	}
	e, ok := r.entries[name]
	return e, ok
}

// Schemas returns every derived schema in registration order.
func (r *Registry) Schemas() []Schema {
	if r == nil {
		return nil
	}
	out := make([]Schema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].Schema)
	}
	return out
}

// Definitions returns the tool definitions offered to the model, in
// registration order.
func (r *Registry) Definitions() []model.ToolDefinition {
	if r == nil {
		return nil
	}
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		s := r.entries[name].Schema
		defs = append(defs, model.ToolDefinition{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  s.JSONSchema(),
		})
	}
	return defs
}
