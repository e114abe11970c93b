package internalenv

import (
	"strings"
)

var (
	EnvSep = "_"
	envRep = strings.NewReplacer("-", EnvSep, ".", EnvSep)
)

// NormEnv converts a name into its environment variable form (eg., "log-level" into "LOG_LEVEL").
func NormEnv(str string) string {
	return envRep.Replace(strings.ToUpper(str))
}

// NormPrefix converts an application name or prefix into an environment variable prefix ending with the separator.
//
// The empty string stays empty.
func NormPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	prefix = NormEnv(prefix)
	if !strings.HasSuffix(prefix, EnvSep) {
		prefix += EnvSep
	}

	return prefix
}

// Var returns the environment variable name of key under the application prefix (eg., "outfitter" and "config" into "OUTFITTER_CONFIG").
func Var(prefix, key string) string {
	return NormPrefix(prefix) + NormEnv(key)
}

// ParseEnviron converts "KEY=value" entries into a map.
//
// Entries without a separator are ignored; later entries win.
func ParseEnviron(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = value
	}

	return out
}

// StripPrefix keeps only the variables starting with prefix, removing it from their names.
//
// An empty prefix keeps every variable.
func StripPrefix(env map[string]string, prefix string) map[string]string {
	prefix = NormPrefix(prefix)

	out := make(map[string]string, len(env))
	for key, value := range env {
		if prefix == "" {
			out[key] = value

			continue
		}
		if stripped, ok := strings.CutPrefix(key, prefix); ok && stripped != "" {
			out[stripped] = value
		}
	}

	return out
}
