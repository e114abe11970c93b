package resolve

import (
	"fmt"
	"strings"

	outfittererrors "github.com/leodido/outfitter/errors"
)

// Scope represents a precedence tier determining which directories are searched.
type Scope int

const (
	// ScopeAll searches every scope in precedence order.
	ScopeAll Scope = iota
	// ScopeProject searches the working directory.
	ScopeProject
	// ScopeUser searches the XDG configuration directories.
	ScopeUser
	// ScopeDefault searches /etc/{name}.
	ScopeDefault
)

// ScopeIds maps scopes to their names (enumflag identifiers).
var ScopeIds = map[Scope][]string{
	ScopeAll:     {"all"},
	ScopeProject: {"project"},
	ScopeUser:    {"user"},
	ScopeDefault: {"default"},
}

// precedence is the fixed order scopes are searched in.
var precedence = []Scope{ScopeProject, ScopeUser, ScopeDefault}

func (s Scope) String() string {
	if ids, ok := ScopeIds[s]; ok {
		return ids[0]
	}

	return fmt.Sprintf("scope(%d)", int(s))
}

// includes tells whether searching s covers other.
func (s Scope) includes(other Scope) bool {
	return s == ScopeAll || s == other
}

// ParseScope converts a scope name (case-insensitive) into a Scope.
func ParseScope(name string) (Scope, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for scope, ids := range ScopeIds {
		for _, id := range ids {
			if id == name {
				return scope, nil
			}
		}
	}

	return ScopeAll, fmt.Errorf("invalid scope '%s' (one of: all, project, user, default)", name)
}

// Format represents a configuration file format.
type Format int

const (
	FormatTOML Format = iota
	FormatJSONC
	FormatYAML
	// FormatYML is a display alias of FormatYAML.
	FormatYML
	FormatJSON
)

// FormatIds maps formats to their names (enumflag identifiers).
var FormatIds = map[Format][]string{
	FormatTOML:  {"toml"},
	FormatJSONC: {"jsonc"},
	FormatYAML:  {"yaml"},
	FormatYML:   {"yml"},
	FormatJSON:  {"json"},
}

// DefaultFormats is the format precedence used when none is given.
var DefaultFormats = []Format{FormatTOML, FormatJSONC, FormatYAML}

// aliases maps display aliases to the format they stand for.
var aliases = map[Format]Format{
	FormatYML: FormatYAML,
}

// NormalizeFormat resolves format aliases.
func NormalizeFormat(f Format) Format {
	if canonical, ok := aliases[f]; ok {
		return canonical
	}

	return f
}

func (f Format) String() string {
	if ids, ok := FormatIds[f]; ok {
		return ids[0]
	}

	return fmt.Sprintf("format(%d)", int(f))
}

// Extension returns the file extension (without dot) of the normalized format.
func (f Format) Extension() string {
	return NormalizeFormat(f).String()
}

// ParseFormat converts a format name or extension (with or without the leading dot) into a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	for format, ids := range FormatIds {
		for _, id := range ids {
			if id == name {
				return format, nil
			}
		}
	}

	return FormatTOML, outfittererrors.NewUnknownFormatError(name)
}
