package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Serialize renders a tool result as the JSON text recorded in memory. Map keys
// come out sorted and HTML characters are not escaped. Values JSON cannot
// encode (channels, functions, cyclic structures) fall back to their fmt
// rendering, encoded as a JSON string.
func Serialize(v any) string {
	if s, err := encode(v); err == nil {
		return s
	}
	s, err := encode(fmt.Sprint(v))
	if err != nil {
		return `""`
	}
	return s
}

func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
