package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies a class of failure.
//
// Codes are grouped in ranges.
// 1000s are file access and format parsing failures, 2000-2099 configuration validation failures, 2100s other configuration failures, 3000s schema validation failures.
type Code int

const (
	CodeFileNotFound  Code = 1001
	CodeRead          Code = 1002
	CodeParse         Code = 1003
	CodeUnknownFormat Code = 1004

	CodeConfigValidation Code = 2001
	CodeConfigUnexpected Code = 2101

	CodeValidation     Code = 3001
	CodeSchemaNotFound Code = 3002
)

// IsConfigValidation reports whether the code belongs to the configuration validation range.
func (c Code) IsConfigValidation() bool {
	return c >= 2000 && c < 2100
}

// Coder is implemented by every error of this package.
type Coder interface {
	error
	Code() Code
}

// CodeOf returns the code of the first Coder found in the chain of err, or zero.
func CodeOf(err error) Code {
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}

	return 0
}

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrReadOrParse      = errors.New("couldn't read or parse file")
	ErrUnknownFormat    = errors.New("unknown configuration format")
	ErrConfigValidation = errors.New("invalid configuration")
	ErrUnexpectedParse  = errors.New("unexpected configuration parse error")
	ErrValidation       = errors.New("validation failed")
	ErrSchemaNotFound   = errors.New("schema not found")
)

// FileNotFoundError represents a candidate path that does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *FileNotFoundError) Code() Code {
	return CodeFileNotFound
}

func (e *FileNotFoundError) Unwrap() error {
	return ErrFileNotFound
}

// ReadError represents an I/O failure while checking or reading a file.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("couldn't read '%s': %v", e.Path, e.Cause)
}

func (e *ReadError) Code() Code {
	return CodeRead
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrReadOrParse, e.Cause}
}

// ParseError represents malformed syntax in a configuration file.
type ParseError struct {
	Path   string
	Format string
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("couldn't parse %s file '%s': %v", e.Format, e.Path, e.Cause)
}

func (e *ParseError) Code() Code {
	return CodeParse
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrReadOrParse, e.Cause}
}

// UnknownFormatError represents a path or format name no loader handles.
type UnknownFormatError struct {
	Input string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown configuration format '%s'", e.Input)
}

func (e *UnknownFormatError) Code() Code {
	return CodeUnknownFormat
}

func (e *UnknownFormatError) Unwrap() error {
	return ErrUnknownFormat
}

// ConfigValidationError represents a configuration that violates the declared shape.
//
// Issues holds one "<dotted.path>: <message>" entry per violation, in schema traversal order.
type ConfigValidationError struct {
	Issues []string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Message())
}

// Message joins all the issues with "; ".
func (e *ConfigValidationError) Message() string {
	return strings.Join(e.Issues, "; ")
}

func (e *ConfigValidationError) Code() Code {
	return CodeConfigValidation
}

func (e *ConfigValidationError) Unwrap() error {
	return ErrConfigValidation
}

// UnexpectedParseError wraps a failure that is not a schema violation.
type UnexpectedParseError struct {
	Cause error
}

func (e *UnexpectedParseError) Error() string {
	return fmt.Sprintf("couldn't parse configuration: %v", e.Cause)
}

func (e *UnexpectedParseError) Code() Code {
	return CodeConfigUnexpected
}

func (e *UnexpectedParseError) Unwrap() []error {
	return []error{ErrUnexpectedParse, e.Cause}
}

// SchemaNotFoundError represents a registry lookup miss.
type SchemaNotFoundError struct {
	Name string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("schema '%s' not found", e.Name)
}

func (e *SchemaNotFoundError) Code() Code {
	return CodeSchemaNotFound
}

func (e *SchemaNotFoundError) Unwrap() error {
	return ErrSchemaNotFound
}

func NewFileNotFoundError(path string) error {
	return &FileNotFoundError{Path: path}
}

func NewReadError(path string, cause error) error {
	return &ReadError{Path: path, Cause: cause}
}

func NewParseError(path, format string, cause error) error {
	return &ParseError{Path: path, Format: format, Cause: cause}
}

func NewUnknownFormatError(input string) error {
	return &UnknownFormatError{Input: input}
}

func NewConfigValidationError(issues []string) error {
	return &ConfigValidationError{Issues: issues}
}

func NewUnexpectedParseError(cause error) error {
	return &UnexpectedParseError{Cause: cause}
}

func NewSchemaNotFoundError(name string) error {
	return &SchemaNotFoundError{Name: name}
}
