package util

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Field describes one parameter derived from a struct field.
type Field struct {
	Name     string
	Type     reflect.Type
	Optional bool
	// Inject is set for fields tagged `tool:"..."`; such fields are filled by
	// the dispatcher rather than the model.
	Inject string
	// Default is the raw `default:"..."` tag value, if any.
	Default string
	index   []int
}

// StructFields derives parameters from the exported fields of a struct type
// (or pointer to one) using reflection. The parameter name comes from the json
// tag; omitempty, pointer fields and fields with a default tag are optional.
func StructFields(t reflect.Type) ([]Field, error) {
	if t == nil {
		return nil, fmt.Errorf("nil argument type")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("argument type %s is not a struct", t)
	}

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		if inject := field.Tag.Get("tool"); inject != "" {
			fields = append(fields, Field{Name: inject, Type: field.Type, Inject: inject, index: field.Index})
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := field.Name
		if jsonTag != "" {
			if parts := strings.Split(jsonTag, ","); parts[0] != "" {
				name = parts[0]
			}
		}

		def, hasDefault := field.Tag.Lookup("default")

		fields = append(fields, Field{
			Name:     name,
			Type:     field.Type,
			Optional: hasOmitEmpty(jsonTag) || isPointer(field.Type) || hasDefault,
			Default:  def,
			index:    field.Index,
		})
	}

	return fields, nil
}

// Bind decodes an argument mapping into the struct pointed to by dst.
// Keys listed in injectKeys are not decoded as JSON; they are assigned to the
// fields tagged `tool:"<key>"` instead. Missing fields with a default tag
// receive their default.
func Bind(args map[string]any, dst any, injectKeys ...string) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("bind target must be a non-nil pointer, got %T", dst)
	}

	fields, err := StructFields(rv.Type())
	if err != nil {
		return err
	}

	plain := make(map[string]any, len(args))
	for k, v := range args {
		if !contains(injectKeys, k) {
			plain[k] = v
		}
	}

	b, err := json.Marshal(plain)
	if err != nil {
		return fmt.Errorf("encode arguments: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}

	elem := rv.Elem()
	for _, f := range fields {
		fv := elem.FieldByIndex(f.index)

		if f.Inject != "" {
			v, ok := args[f.Inject]
			if !ok || v == nil {
				continue
			}
			val := reflect.ValueOf(v)
			if !val.Type().AssignableTo(fv.Type()) {
				return fmt.Errorf("cannot inject %s of type %T into field of type %s", f.Inject, v, fv.Type())
			}
			fv.Set(val)
			continue
		}

		if f.Default == "" {
			continue
		}
		if _, ok := plain[f.Name]; ok {
			continue
		}
		if err := setDefault(fv, f.Default); err != nil {
			return fmt.Errorf("default for %s: %w", f.Name, err)
		}
	}

	return nil
}

func setDefault(fv reflect.Value, raw string) error {
	target := fv
	if fv.Kind() == reflect.Pointer {
		target = reflect.New(fv.Type().Elem()).Elem()
	}

	if target.Kind() == reflect.String {
		target.SetString(raw)
	} else if err := json.Unmarshal([]byte(raw), target.Addr().Interface()); err != nil {
		return err
	}

	if fv.Kind() == reflect.Pointer {
		fv.Set(target.Addr())
	}
	return nil
}

// hasOmitEmpty checks if a JSON tag has the "omitempty" option.
func hasOmitEmpty(tag string) bool {
	parts := strings.Split(tag, ",")
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "omitempty" {
			return true
		}
	}
	return false
}

// isPointer checks if a type is a pointer.
func isPointer(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
