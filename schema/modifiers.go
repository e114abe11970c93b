package schema

import (
	"strings"

	"github.com/invopop/jsonschema"
)

// wrapper is implemented by schemas decorating another schema.
type wrapper interface {
	unwrap() Schema
}

func unwrapAll(s Schema) Schema {
	for {
		w, ok := s.(wrapper)
		if !ok {
			return s
		}
		s = w.unwrap()
	}
}

func isOptional(s Schema) bool {
	for {
		if _, ok := s.(*OptionalSchema); ok {
			return true
		}
		w, ok := s.(wrapper)
		if !ok {
			return false
		}
		s = w.unwrap()
	}
}

func defaultOf(s Schema) (any, bool) {
	for {
		if d, ok := s.(*DefaultSchema); ok {
			return d.value, true
		}
		w, ok := s.(wrapper)
		if !ok {
			return nil, false
		}
		s = w.unwrap()
	}
}

// OptionalSchema lets an object property be absent.
type OptionalSchema struct {
	inner Schema
}

// Optional marks s as not required when used as an object property.
func Optional(s Schema) *OptionalSchema {
	return &OptionalSchema{inner: s}
}

func (s *OptionalSchema) unwrap() Schema {
	return s.inner
}

func (s *OptionalSchema) Check(path []string, value any) (any, []Issue) {
	return s.inner.Check(path, value)
}

func (s *OptionalSchema) JSONSchema() *jsonschema.Schema {
	return s.inner.JSONSchema()
}

// DefaultSchema substitutes a value for an absent object property.
type DefaultSchema struct {
	inner Schema
	value any
}

// Default uses value when the property is absent; the value is still checked against s.
func Default(s Schema, value any) *DefaultSchema {
	return &DefaultSchema{inner: s, value: value}
}

func (s *DefaultSchema) unwrap() Schema {
	return s.inner
}

func (s *DefaultSchema) Check(path []string, value any) (any, []Issue) {
	return s.inner.Check(path, value)
}

func (s *DefaultSchema) JSONSchema() *jsonschema.Schema {
	out := *s.inner.JSONSchema()
	out.Default = deepCopy(s.value)

	return &out
}

// DescribedSchema attaches a human-readable description.
type DescribedSchema struct {
	inner       Schema
	description string
}

// Describe documents s; the description ends up in the JSON Schema.
func Describe(s Schema, description string) *DescribedSchema {
	return &DescribedSchema{inner: s, description: description}
}

func (s *DescribedSchema) unwrap() Schema {
	return s.inner
}

func (s *DescribedSchema) Check(path []string, value any) (any, []Issue) {
	return s.inner.Check(path, value)
}

func (s *DescribedSchema) JSONSchema() *jsonschema.Schema {
	out := *s.inner.JSONSchema()
	out.Description = s.description

	return &out
}

// RefineOption configures a refinement.
type RefineOption func(*RefinedSchema)

// Advisory makes the refinement report warnings instead of errors.
func Advisory() RefineOption {
	return func(s *RefinedSchema) {
		s.advisory = true
	}
}

// WithParams attaches parameters to the issue the refinement reports.
func WithParams(params map[string]any) RefineOption {
	return func(s *RefinedSchema) {
		for k, v := range params {
			s.params[k] = v
		}
	}
}

// RefinedSchema runs a custom check once the inner schema is satisfied.
type RefinedSchema struct {
	inner    Schema
	check    func(any) bool
	message  string
	advisory bool
	params   map[string]any
}

// Refine adds a custom check to s. When check returns false an issue with code CodeCustom and the given message is reported.
func Refine(s Schema, check func(value any) bool, message string, opts ...RefineOption) *RefinedSchema {
	r := &RefinedSchema{inner: s, check: check, message: message, params: map[string]any{}}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (s *RefinedSchema) unwrap() Schema {
	return s.inner
}

func (s *RefinedSchema) Check(path []string, value any) (any, []Issue) {
	out, issues := s.inner.Check(path, value)
	if HasErrors(issues) || s.check(out) {
		return out, issues
	}

	params := make(map[string]any, len(s.params)+1)
	for k, v := range s.params {
		params[k] = v
	}
	if s.advisory {
		params[ParamSeverity] = SeverityWarning
	}

	return out, append(issues, Issue{
		Path:    clonePath(path),
		Message: s.message,
		Code:    CodeCustom,
		Params:  params,
	})
}

func (s *RefinedSchema) JSONSchema() *jsonschema.Schema {
	return s.inner.JSONSchema()
}

// UnionSchema accepts values satisfying at least one of its options.
type UnionSchema struct {
	options []Schema
}

// Union returns a schema accepting values satisfying any of options, tried in order.
func Union(options ...Schema) *UnionSchema {
	return &UnionSchema{options: options}
}

func (s *UnionSchema) Check(path []string, value any) (any, []Issue) {
	var branches [][]Issue
	for _, opt := range s.options {
		out, issues := opt.Check(path, value)
		if !HasErrors(issues) {
			return out, issues
		}
		branches = append(branches, issues)
	}

	expected := make([]string, len(s.options))
	for i, opt := range s.options {
		expected[i] = expectedOf(opt)
	}

	return nil, []Issue{{
		Path:    clonePath(path),
		Message: "Invalid input: expected " + strings.Join(expected, " or "),
		Code:    CodeInvalidUnion,
		Params:  map[string]any{"unionErrors": branches},
	}}
}

func (s *UnionSchema) JSONSchema() *jsonschema.Schema {
	anyOf := make([]*jsonschema.Schema, len(s.options))
	for i, opt := range s.options {
		anyOf[i] = opt.JSONSchema()
	}

	return &jsonschema.Schema{AnyOf: anyOf}
}
