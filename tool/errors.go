package tool

import "fmt"

// SchemaError reports a tool signature that cannot be turned into a schema.
type SchemaError struct {
	Tool    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Tool == "" {
		return "schema error: " + e.Message
	}
	return fmt.Sprintf("schema error in %s: %s", e.Tool, e.Message)
}

// RegistrationError reports a registry that could not be built.
type RegistrationError struct {
	Tool    string
	Message string
	Err     error
}

func (e *RegistrationError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	if e.Tool == "" {
		return "registration error: " + msg
	}
	return fmt.Sprintf("registration error for %s: %s", e.Tool, msg)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// UnknownToolError reports a call to a name nothing is registered under. Its
// message is what the model sees.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return `"` + e.Name + `" is not a callable function.`
}

// ArgumentParseError reports raw arguments that are not a JSON object or do
// not fit the tool's schema.
type ArgumentParseError struct {
	Tool string
	Raw  string
	Err  error
}

func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ArgumentParseError) Unwrap() error { return e.Err }

// ToolExecutionError wraps an error returned, or a panic raised, by a tool body.
type ToolExecutionError struct {
	Tool  string
	Err   error
	Panic bool
}

func (e *ToolExecutionError) Error() string { return e.Err.Error() }

func (e *ToolExecutionError) Unwrap() error { return e.Err }
