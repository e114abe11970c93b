package validation

import (
	"fmt"
	"slices"
	"sync"

	internalhooks "github.com/leodido/outfitter/internal/hooks"
	"github.com/leodido/outfitter/schema"
)

// Registry stores schemas by name.
//
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]schema.Schema
	names   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: map[string]schema.Schema{}}
}

// Register stores s under name, replacing any previous schema with that name.
//
// A replaced schema keeps its original position in List.
func (r *Registry) Register(name string, s schema.Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[name]; !exists {
		r.names = append(r.names, name)
	}
	r.schemas[name] = s
}

// Get returns the schema registered under name.
func (r *Registry) Get(name string) (schema.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]

	return s, ok
}

// List returns the registered names, in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.names)
}

// Validate checks data against the schema registered under name.
//
// An unregistered name fails with a single schema_not_found diagnostic, without looking at data.
func (r *Registry) Validate(name string, data any) (any, error) {
	s, ok := r.Get(name)
	if !ok {
		return nil, NewValidationError(name, []Diagnostic{{
			Path:     []string{},
			Message:  fmt.Sprintf("Schema '%s' not found", name),
			Code:     CodeSchemaNotFound,
			Severity: SeverityError,
		}})
	}

	value, diagnostics := ValidateWithDiagnostics(s, data)
	if HasErrors(diagnostics) {
		return nil, NewValidationError(name, diagnostics)
	}

	return value, nil
}

// ValidateInto validates data against the schema registered under name and decodes the result into a T.
func ValidateInto[T any](r *Registry, name string, data any) (T, error) {
	var out T

	value, err := r.Validate(name, data)
	if err != nil {
		return out, err
	}
	if err := internalhooks.Decode(value, &out); err != nil {
		return out, fmt.Errorf("couldn't decode validated %s data: %w", name, err)
	}

	return out, nil
}

// GenerateJSONSchema renders the JSON Schema draft-7 document describing s.
func GenerateJSONSchema(s schema.Schema) ([]byte, error) {
	return schema.MarshalJSONSchema(s)
}
