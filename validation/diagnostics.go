// Package validation turns schema issues into path-qualified diagnostics and provides a named schema registry.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	outfittererrors "github.com/leodido/outfitter/errors"
	"github.com/leodido/outfitter/schema"
)

// Severity tells whether a diagnostic blocks validation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// CodeSchemaNotFound is the diagnostic code of a registry lookup miss.
const CodeSchemaNotFound = "schema_not_found"

// Diagnostic describes a single violated constraint.
type Diagnostic struct {
	Path     []string `json:"path" yaml:"path"`
	Message  string   `json:"message" yaml:"message"`
	Code     string   `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// Location returns the dotted path, or "<root>" for the root value.
func (d Diagnostic) Location() string {
	if len(d.Path) == 0 {
		return "<root>"
	}

	return strings.Join(d.Path, ".")
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Location(), d.Message)
}

// FromIssue converts a schema issue into a diagnostic.
//
// Only issues raised by advisory refinements become warnings.
func FromIssue(issue schema.Issue) Diagnostic {
	severity := SeverityError
	if issue.Advisory() {
		severity = SeverityWarning
	}

	return Diagnostic{
		Path:     slices.Clone(issue.Path),
		Message:  issue.Message,
		Code:     issue.Code,
		Severity: severity,
	}
}

// HasErrors tells whether any diagnostic has error severity.
func HasErrors(diagnostics []Diagnostic) bool {
	return slices.ContainsFunc(diagnostics, func(d Diagnostic) bool {
		return d.Severity == SeverityError
	})
}

// Errors returns the error-severity diagnostics, in order.
func Errors(diagnostics []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}

	return out
}

// Warnings returns the warning-severity diagnostics, in order.
func Warnings(diagnostics []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diagnostics {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}

	return out
}

// ValidateWithDiagnostics checks data against s.
//
// The returned value is nil when at least one error-severity diagnostic is present.
// Warnings may accompany a valid value.
func ValidateWithDiagnostics(s schema.Schema, data any) (any, []Diagnostic) {
	value, issues := schema.Validate(s, data)

	diagnostics := make([]Diagnostic, len(issues))
	for i, issue := range issues {
		diagnostics[i] = FromIssue(issue)
	}
	if HasErrors(diagnostics) {
		return nil, diagnostics
	}

	return value, diagnostics
}

// ValidationError carries every diagnostic of a failed validation.
type ValidationError struct {
	Schema      string
	Diagnostics []Diagnostic
}

// NewValidationError creates a ValidationError for the given (optional) schema name.
func NewValidationError(schemaName string, diagnostics []Diagnostic) *ValidationError {
	return &ValidationError{
		Schema:      schemaName,
		Diagnostics: slices.Clone(diagnostics),
	}
}

func (e *ValidationError) Name() string {
	return "ValidationError"
}

// Summary joins every diagnostic into a single line.
func (e *ValidationError) Summary() string {
	prefix := "Validation failed"
	if e.Schema != "" {
		prefix += " for " + e.Schema
	}
	if len(e.Diagnostics) == 0 {
		return prefix
	}

	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = d.String()
	}

	return prefix + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Error() string {
	return e.Summary()
}

func (e *ValidationError) notFound() bool {
	return len(e.Diagnostics) == 1 && e.Diagnostics[0].Code == CodeSchemaNotFound
}

func (e *ValidationError) Code() outfittererrors.Code {
	if e.notFound() {
		return outfittererrors.CodeSchemaNotFound
	}

	return outfittererrors.CodeValidation
}

func (e *ValidationError) Unwrap() []error {
	if e.notFound() {
		return []error{outfittererrors.ErrValidation, outfittererrors.ErrSchemaNotFound}
	}

	return []error{outfittererrors.ErrValidation}
}

// AsValidationError extracts the ValidationError from the chain of err.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}

	return nil, false
}
