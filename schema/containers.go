package schema

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// ArraySchema accepts lists whose items all satisfy the item schema.
type ArraySchema struct {
	item Schema
}

// Array returns a schema accepting lists of item.
func Array(item Schema) *ArraySchema {
	return &ArraySchema{item: item}
}

func (s *ArraySchema) Check(path []string, value any) (any, []Issue) {
	items, ok := asSlice(value)
	if !ok {
		return nil, []Issue{invalidType(path, "array", value)}
	}

	out := make([]any, len(items))
	var issues []Issue
	for i, item := range items {
		v, itemIssues := s.item.Check(childPath(path, strconv.Itoa(i)), item)
		out[i] = v
		issues = append(issues, itemIssues...)
	}

	return out, issues
}

func (s *ArraySchema) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Items: s.item.JSONSchema()}
}

// RecordSchema accepts objects with arbitrary keys whose values all satisfy the value schema.
type RecordSchema struct {
	value Schema
}

// Record returns a schema accepting string-keyed maps of value.
func Record(value Schema) *RecordSchema {
	return &RecordSchema{value: value}
}

func (s *RecordSchema) Check(path []string, value any) (any, []Issue) {
	m, ok := asMap(value)
	if !ok {
		return nil, []Issue{invalidType(path, "object", value)}
	}

	out := make(map[string]any, len(m))
	var issues []Issue
	for _, key := range sortedKeys(m) {
		v, valueIssues := s.value.Check(childPath(path, key), m[key])
		out[key] = v
		issues = append(issues, valueIssues...)
	}

	return out, issues
}

func (s *RecordSchema) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", AdditionalProperties: s.value.JSONSchema()}
}

// Property is a named member of an object schema.
type Property struct {
	Name   string
	Schema Schema
}

// Prop declares a property.
func Prop(name string, s Schema) Property {
	return Property{Name: name, Schema: s}
}

// ObjectSchema accepts objects with a declared set of properties.
//
// Unknown keys are dropped, or reported when the schema is strict.
type ObjectSchema struct {
	props  []Property
	strict bool
}

// Object returns a schema accepting objects with the given properties.
//
// Properties are required unless wrapped with Optional or Default.
func Object(props ...Property) *ObjectSchema {
	return &ObjectSchema{props: slices.Clone(props)}
}

// Strict returns a copy of the schema that rejects unknown keys.
func (s *ObjectSchema) Strict() *ObjectSchema {
	return &ObjectSchema{props: slices.Clone(s.props), strict: true}
}

// Keys returns the property names, in declaration order.
func (s *ObjectSchema) Keys() []string {
	keys := make([]string, len(s.props))
	for i, p := range s.props {
		keys[i] = p.Name
	}

	return keys
}

// Property returns the schema of the named property.
func (s *ObjectSchema) Property(name string) (Schema, bool) {
	for _, p := range s.props {
		if p.Name == name {
			return p.Schema, true
		}
	}

	return nil, false
}

func (s *ObjectSchema) Check(path []string, value any) (any, []Issue) {
	m, ok := asMap(value)
	if !ok {
		return nil, []Issue{invalidType(path, "object", value)}
	}

	out := make(map[string]any, len(s.props))
	var issues []Issue
	for _, p := range s.props {
		propPath := childPath(path, p.Name)
		v, present := m[p.Name]
		if !present {
			if def, ok := defaultOf(p.Schema); ok {
				v = deepCopy(def)
			} else if isOptional(p.Schema) {
				continue
			} else {
				issues = append(issues, required(propPath, expectedOf(p.Schema)))

				continue
			}
		}
		checked, propIssues := p.Schema.Check(propPath, v)
		out[p.Name] = checked
		issues = append(issues, propIssues...)
	}

	if s.strict {
		var unknown []string
		for _, key := range sortedKeys(m) {
			if _, declared := s.Property(key); !declared {
				unknown = append(unknown, key)
			}
		}
		if len(unknown) > 0 {
			quoted := make([]string, len(unknown))
			for i, k := range unknown {
				quoted[i] = "'" + k + "'"
			}
			issues = append(issues, Issue{
				Path:    clonePath(path),
				Message: fmt.Sprintf("Unrecognized key(s) in object: %s", strings.Join(quoted, ", ")),
				Code:    CodeUnrecognizedKeys,
				Params:  map[string]any{"keys": unknown},
			})
		}
	}

	return out, issues
}

func (s *ObjectSchema) JSONSchema() *jsonschema.Schema {
	out := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for _, p := range s.props {
		out.Properties.Set(p.Name, p.Schema.JSONSchema())
		if _, hasDefault := defaultOf(p.Schema); !hasDefault && !isOptional(p.Schema) {
			out.Required = append(out.Required, p.Name)
		}
	}
	if s.strict {
		out.AdditionalProperties = jsonschema.FalseSchema
	}

	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// expectedOf names what a schema expects, for "Required" issues.
func expectedOf(s Schema) string {
	switch t := unwrapAll(s).(type) {
	case *BoolSchema:
		return "boolean"
	case *StringSchema:
		return "string"
	case *NumberSchema:
		return "number"
	case *EnumSchema:
		return t.expected()
	case *ArraySchema:
		return "array"
	case *ObjectSchema, *RecordSchema:
		return "object"
	default:
		return "value"
	}
}
