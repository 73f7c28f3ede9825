package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeObject parses raw tool-call arguments into a JSON object. Empty input
// and a literal null both yield an empty object. When repair is set, input
// that fails with a syntax error is run through jsonrepair and parsed again.
func DecodeObject(raw string, repair bool) (map[string]any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return map[string]any{}, nil
	}

	var v any
	err := json.Unmarshal([]byte(trimmed), &v)
	if err != nil {
		var syntaxErr *json.SyntaxError
		if !repair || !errors.As(err, &syntaxErr) {
			return nil, err
		}

		fixed, rerr := jsonrepair.JSONRepair(trimmed)
		if rerr != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fixed), &v); err != nil {
			return nil, err
		}
	}

	switch obj := v.(type) {
	case map[string]any:
		return obj, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("arguments must be a JSON object, got %T", v)
	}
}
