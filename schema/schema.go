// Package schema declares the shape of untyped data (as produced by the format loaders) and checks data against it.
//
// A check never stops at the first violation: every issue found is reported, in the order the schema is traversed.
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

// Issue codes.
const (
	CodeInvalidType      = "invalid_type"
	CodeInvalidEnumValue = "invalid_enum_value"
	CodeUnrecognizedKeys = "unrecognized_keys"
	CodeInvalidUnion     = "invalid_union"
	CodeInvalidString    = "invalid_string"
	CodeCustom           = "custom"
)

const (
	// ParamSeverity is the issue parameter advisory refinements set.
	ParamSeverity = "severity"
	// SeverityWarning marks an issue as advisory.
	SeverityWarning = "warning"
)

// Issue describes a single violation.
type Issue struct {
	Path    []string
	Message string
	Code    string
	Params  map[string]any
}

// Advisory tells whether the issue was raised by an advisory refinement.
func (i Issue) Advisory() bool {
	return i.Code == CodeCustom && i.Params[ParamSeverity] == SeverityWarning
}

// DottedPath joins the path with dots.
func (i Issue) DottedPath() string {
	return strings.Join(i.Path, ".")
}

// Schema checks untyped values.
type Schema interface {
	// Check validates value found at path.
	//
	// It returns the normalized value (freshly allocated for containers) and the issues found.
	Check(path []string, value any) (any, []Issue)
	// JSONSchema describes the schema as a JSON Schema.
	JSONSchema() *jsonschema.Schema
}

// Validate checks value against s from the root.
//
// The returned value is meaningful only when HasErrors(issues) is false.
func Validate(s Schema, value any) (any, []Issue) {
	return s.Check(nil, value)
}

// HasErrors tells whether any of the issues is blocking.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if !issue.Advisory() {
			return true
		}
	}

	return false
}

func childPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)

	return append(out, key)
}

func clonePath(path []string) []string {
	if path == nil {
		return []string{}
	}
	out := make([]string, len(path))
	copy(out, path)

	return out
}

func invalidType(path []string, expected string, value any) Issue {
	received := TypeOf(value)

	return Issue{
		Path:    clonePath(path),
		Message: fmt.Sprintf("Expected %s, received %s", expected, received),
		Code:    CodeInvalidType,
		Params:  map[string]any{"expected": expected, "received": received},
	}
}

func required(path []string, expected string) Issue {
	return Issue{
		Path:    clonePath(path),
		Message: "Required",
		Code:    CodeInvalidType,
		Params:  map[string]any{"expected": expected, "received": "undefined"},
	}
}

// TypeOf names the type of an untyped value the way issues report it.
func TypeOf(value any) string {
	if value == nil {
		return "null"
	}
	if _, ok := value.(time.Time); ok {
		return "date"
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Pointer:
		if v := reflect.ValueOf(value); !v.IsNil() {
			return TypeOf(v.Elem().Interface())
		}

		return "null"
	default:
		return reflect.TypeOf(value).String()
	}
}

// asMap views value as a string-keyed map.
func asMap(value any) (map[string]any, bool) {
	if m, ok := value.(map[string]any); ok {
		return m, true
	}
	if value == nil {
		return nil, false
	}

	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}

	return out, true
}

// asSlice views value as a slice of untyped values.
func asSlice(value any) ([]any, bool) {
	if s, ok := value.([]any); ok {
		return s, true
	}
	if value == nil {
		return nil, false
	}

	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, false
	}
	// Byte slices are not lists.
	if v.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, v.Len())
	for i := range v.Len() {
		out[i] = v.Index(i).Interface()
	}

	return out, true
}

// deepCopy duplicates maps and slices so the result shares no container with the input.
func deepCopy(value any) any {
	if m, ok := asMap(value); ok {
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = deepCopy(v)
		}

		return out
	}
	if s, ok := asSlice(value); ok {
		out := make([]any, len(s))
		for i, v := range s {
			out[i] = deepCopy(v)
		}

		return out
	}

	return value
}
