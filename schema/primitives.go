package schema

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cast"
)

var validate = validator.New()

// BoolSchema accepts booleans.
type BoolSchema struct {
	coerce bool
}

// Bool returns a schema accepting booleans.
func Bool() *BoolSchema {
	return &BoolSchema{}
}

// Coerce makes the schema also accept boolean-like strings ("true", "1", "false", "0", ...).
func (s *BoolSchema) Coerce() *BoolSchema {
	return &BoolSchema{coerce: true}
}

func (s *BoolSchema) Check(path []string, value any) (any, []Issue) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	if str, ok := value.(string); ok && s.coerce {
		if b, err := cast.ToBoolE(strings.TrimSpace(str)); err == nil {
			return b, nil
		}
	}

	return nil, []Issue{invalidType(path, "boolean", value)}
}

func (s *BoolSchema) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean"}
}

// StringSchema accepts strings.
type StringSchema struct {
	tags []string
}

// String returns a schema accepting strings.
func String() *StringSchema {
	return &StringSchema{}
}

// Tag adds a constraint expressed with validator tags (eg., "min=1", "url", "oneof=a b").
//
// Constraints are checked in the order they were added, after the type check.
func (s *StringSchema) Tag(tag string) *StringSchema {
	return &StringSchema{tags: append(slices.Clone(s.tags), tag)}
}

func (s *StringSchema) Check(path []string, value any) (any, []Issue) {
	str, ok := value.(string)
	if !ok {
		return nil, []Issue{invalidType(path, "string", value)}
	}

	var issues []Issue
	for _, tag := range s.tags {
		if err := validate.Var(str, tag); err != nil {
			issues = append(issues, tagIssue(path, tag, err))
		}
	}
	if len(issues) > 0 {
		return nil, issues
	}

	return str, nil
}

func tagIssue(path []string, tag string, err error) Issue {
	failed := tag
	param := ""
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		failed = fieldErrs[0].Tag()
		param = fieldErrs[0].Param()
	}

	msg := fmt.Sprintf("Invalid string: must satisfy '%s'", failed)
	if param != "" {
		msg = fmt.Sprintf("Invalid string: must satisfy '%s=%s'", failed, param)
	}

	return Issue{
		Path:    clonePath(path),
		Message: msg,
		Code:    CodeInvalidString,
		Params:  map[string]any{"validation": failed},
	}
}

func (s *StringSchema) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string"}
}

// NumberSchema accepts numbers, normalized to float64.
type NumberSchema struct {
	integer bool
	coerce  bool
}

// Number returns a schema accepting any number.
func Number() *NumberSchema {
	return &NumberSchema{}
}

// Int restricts the schema to whole numbers.
func (s *NumberSchema) Int() *NumberSchema {
	return &NumberSchema{integer: true, coerce: s.coerce}
}

// Coerce makes the schema also accept numeric strings.
func (s *NumberSchema) Coerce() *NumberSchema {
	return &NumberSchema{integer: s.integer, coerce: true}
}

func (s *NumberSchema) Check(path []string, value any) (any, []Issue) {
	f, ok := toFloat(value)
	if str, isStr := value.(string); !ok && isStr && s.coerce {
		if n, err := cast.ToFloat64E(strings.TrimSpace(str)); err == nil {
			f, ok = n, true
		}
	}
	if !ok {
		return nil, []Issue{invalidType(path, "number", value)}
	}

	if s.integer && f != math.Trunc(f) {
		return nil, []Issue{{
			Path:    clonePath(path),
			Message: "Expected integer, received float",
			Code:    CodeInvalidType,
			Params:  map[string]any{"expected": "integer", "received": "float"},
		}}
	}

	return f, nil
}

func toFloat(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

func (s *NumberSchema) JSONSchema() *jsonschema.Schema {
	if s.integer {
		return &jsonschema.Schema{Type: "integer"}
	}

	return &jsonschema.Schema{Type: "number"}
}

// EnumSchema accepts one of a closed set of strings.
type EnumSchema struct {
	values []string
}

// Enum returns a schema accepting exactly one of values.
func Enum(values ...string) *EnumSchema {
	return &EnumSchema{values: slices.Clone(values)}
}

// Values returns the accepted values, in declaration order.
func (s *EnumSchema) Values() []string {
	return slices.Clone(s.values)
}

func (s *EnumSchema) Check(path []string, value any) (any, []Issue) {
	str, ok := value.(string)
	if !ok {
		return nil, []Issue{invalidType(path, s.expected(), value)}
	}
	if !slices.Contains(s.values, str) {
		return nil, []Issue{{
			Path:    clonePath(path),
			Message: fmt.Sprintf("Invalid enum value. Expected %s, received '%s'", s.expected(), str),
			Code:    CodeInvalidEnumValue,
			Params:  map[string]any{"options": s.Values(), "received": str},
		}}
	}

	return str, nil
}

func (s *EnumSchema) expected() string {
	quoted := make([]string, len(s.values))
	for i, v := range s.values {
		quoted[i] = "'" + v + "'"
	}

	return strings.Join(quoted, " | ")
}

func (s *EnumSchema) JSONSchema() *jsonschema.Schema {
	enum := make([]any, len(s.values))
	for i, v := range s.values {
		enum[i] = v
	}

	return &jsonschema.Schema{Type: "string", Enum: enum}
}

// AnySchema accepts everything.
type AnySchema struct{}

// Any returns a schema accepting any value, passed through as an independent copy.
func Any() AnySchema {
	return AnySchema{}
}

func (AnySchema) Check(_ []string, value any) (any, []Issue) {
	return deepCopy(value), nil
}

func (AnySchema) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{}
}
