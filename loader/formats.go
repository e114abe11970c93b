package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/leodido/outfitter/resolve"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("parser panicked: %v", e.value)
}

// NewTOML returns a loader for TOML files.
func NewTOML(fs afero.Fs) Loader {
	return newFileLoader(fs, resolve.FormatTOML, decodeTOML)
}

// NewYAML returns a loader for YAML files.
func NewYAML(fs afero.Fs) Loader {
	return newFileLoader(fs, resolve.FormatYAML, decodeYAML)
}

// NewJSONC returns a loader for JSON files with comments and trailing commas.
func NewJSONC(fs afero.Fs) Loader {
	return newFileLoader(fs, resolve.FormatJSONC, decodeJSONC)
}

func decodeTOML(data []byte) (any, error) {
	out := map[string]any{}
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&out); err != nil {
		return nil, err
	}

	return out, nil
}

func decodeYAML(data []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	// Empty or comment-only documents
	if out == nil {
		return map[string]any{}, nil
	}

	return normalizeYAML(out), nil
}

// normalizeYAML converts maps with non-string keys (eg., `1: a`) into string-keyed maps.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}

		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}

		return out
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}

		return t
	default:
		return v
	}
}

func decodeJSONC(data []byte) (any, error) {
	stripped := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(stripped)) == 0 {
		return map[string]any{}, nil
	}

	var out any
	if err := json.Unmarshal(stripped, &out); err != nil {
		return nil, err
	}

	return out, nil
}
