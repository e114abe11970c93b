package outfitter

import (
	"fmt"

	outfittererrors "github.com/leodido/outfitter/errors"
	internalhooks "github.com/leodido/outfitter/internal/hooks"
	"github.com/leodido/outfitter/validation"
)

// Parse validates input and merges it with the defaults.
//
// A nil input stands for an empty configuration.
// Schema violations are reported as a *errors.ConfigValidationError listing every violated path;
// any other failure as a *errors.UnexpectedParseError.
// The input is never modified and shares nothing with the returned configuration.
func Parse(input any) (*Config, error) {
	cfg, _, err := ParseWithWarnings(input)

	return cfg, err
}

// MustParse is like Parse but panics on failure.
func MustParse(input any) *Config {
	cfg, err := Parse(input)
	if err != nil {
		panic(err)
	}

	return cfg
}

// ParseWithWarnings is like Parse but also returns the advisory diagnostics (eg., invalid ignore globs).
func ParseWithWarnings(input any) (cfg *Config, warnings []validation.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			cfg, warnings = nil, nil
			err = outfittererrors.NewUnexpectedParseError(fmt.Errorf("%v", r))
		}
	}()

	if input == nil {
		input = map[string]any{}
	}

	value, diagnostics := validation.ValidateWithDiagnostics(ConfigSchema(), input)
	if validation.HasErrors(diagnostics) {
		errs := validation.Errors(diagnostics)
		issues := make([]string, len(errs))
		for i, d := range errs {
			issues[i] = d.String()
		}

		return nil, nil, outfittererrors.NewConfigValidationError(issues)
	}

	data, ok := value.(map[string]any)
	if !ok {
		return nil, nil, outfittererrors.NewUnexpectedParseError(fmt.Errorf("validated configuration is a %T", value))
	}
	cfg, err = merge(data)
	if err != nil {
		return nil, nil, outfittererrors.NewUnexpectedParseError(err)
	}

	return cfg, validation.Warnings(diagnostics), nil
}

// merge overlays validated data onto the defaults.
//
// Validation already produced freshly allocated containers, so decoding shares nothing with the input.
func merge(data map[string]any) (*Config, error) {
	cfg := Default()
	if err := internalhooks.Decode(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Ignore == nil {
		cfg.Ignore = []string{}
	}
	if cfg.Presets == nil {
		cfg.Presets = []string{}
	}

	return cfg, nil
}
