package validation

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/joho/godotenv"
	outfittererrors "github.com/leodido/outfitter/errors"
	internalenv "github.com/leodido/outfitter/internal/env"
	"github.com/leodido/outfitter/schema"
	"github.com/spf13/afero"
)

// EnvSchemaName is the schema name environment validation errors carry.
const EnvSchemaName = "env"

// EnvOptions configures an environment validator.
type EnvOptions struct {
	Env       map[string]string // Variables to validate (defaults to a snapshot of the process environment)
	DotEnv    []string          // .env files to read (missing files are skipped, earlier files win)
	Prefix    string            // Keep only variables with this prefix, stripping it (eg., "outfitter" keeps OUTFITTER_X as X)
	Modifiers string            // mold modifiers applied to every value (eg., "trim")
	Fs        afero.Fs          // Filesystem the .env files are read from (defaults to the OS filesystem)
}

// EnvValidator validates environment variables against a schema.
type EnvValidator struct {
	schema  schema.Schema
	opts    EnvOptions
	conform *mold.Transformer
}

// NewEnvValidator creates a validator checking the environment described by opts against s.
func NewEnvValidator(s schema.Schema, opts EnvOptions) *EnvValidator {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	return &EnvValidator{
		schema:  s,
		opts:    opts,
		conform: modifiers.New(),
	}
}

// Snapshot collects the variables to validate.
//
// Variables from the environment (or the injected map) take precedence over the ones in .env files.
func (v *EnvValidator) Snapshot(ctx context.Context) (map[string]string, error) {
	merged := map[string]string{}
	for _, path := range v.opts.DotEnv {
		vars, err := v.readDotEnv(path)
		if err != nil {
			return nil, err
		}
		for key, value := range vars {
			if _, exists := merged[key]; !exists {
				merged[key] = value
			}
		}
	}

	env := v.opts.Env
	if env == nil {
		env = internalenv.ParseEnviron(os.Environ())
	}
	for key, value := range env {
		merged[key] = value
	}

	out := internalenv.StripPrefix(merged, v.opts.Prefix)
	if v.opts.Modifiers == "" {
		return out, nil
	}
	for key, value := range out {
		if err := v.conform.Field(ctx, &value, v.opts.Modifiers); err != nil {
			return nil, fmt.Errorf("couldn't apply modifiers '%s' to %s: %w", v.opts.Modifiers, key, err)
		}
		out[key] = value
	}

	return out, nil
}

func (v *EnvValidator) readDotEnv(path string) (map[string]string, error) {
	exists, err := afero.Exists(v.opts.Fs, path)
	if err != nil {
		return nil, outfittererrors.NewReadError(path, err)
	}
	if !exists {
		return nil, nil
	}

	data, err := afero.ReadFile(v.opts.Fs, path)
	if err != nil {
		return nil, outfittererrors.NewReadError(path, err)
	}
	vars, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, outfittererrors.NewParseError(path, "dotenv", err)
	}

	return vars, nil
}

// Validate checks the environment snapshot against the schema.
//
// Schema violations are reported as a *ValidationError for the "env" schema.
func (v *EnvValidator) Validate(ctx context.Context) (any, error) {
	snapshot, err := v.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	data := make(map[string]any, len(snapshot))
	for key, value := range snapshot {
		data[key] = value
	}

	value, diagnostics := ValidateWithDiagnostics(v.schema, data)
	if HasErrors(diagnostics) {
		return nil, NewValidationError(EnvSchemaName, diagnostics)
	}

	return value, nil
}
