package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/leodido/outfitter"
	outfittererrors "github.com/leodido/outfitter/errors"
	"github.com/leodido/outfitter/loader"
	"github.com/leodido/outfitter/resolve"
	"github.com/leodido/outfitter/validation"
	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type outputFormat int

const (
	outputYAML outputFormat = iota
	outputJSON
)

var outputIds = map[outputFormat][]string{
	outputYAML: {"yaml"},
	outputJSON: {"json"},
}

func write(w io.Writer, format outputFormat, value any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(value)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}

		return enc.Close()
	}
}

func makeShowC(opts *commonOptions) *cobra.Command {
	output := outputYAML

	showC := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration, merged with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			res, err := outfitter.UseConfig(c, opts.loadOptions())
			if err != nil {
				return err
			}
			if res.Source != "" {
				opts.logger.Info("using configuration file", zap.String("path", res.Source))
			} else {
				opts.logger.Info("running without a configuration file")
			}

			return write(c.OutOrStdout(), output, res.Config)
		},
	}
	showC.Flags().VarP(enumflag.New(&output, "output", outputIds, enumflag.EnumCaseInsensitive), "output", "o", "output format {yaml,json}")

	return showC
}

func makeValidateC(opts *commonOptions) *cobra.Command {
	schemaName := outfitter.ConfigSchemaName

	validateC := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a configuration file, reporting every problem found",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			registry := validation.NewRegistry()
			outfitter.RegisterSchemas(registry)
			s, ok := registry.Get(schemaName)
			if !ok {
				return outfittererrors.NewSchemaNotFoundError(schemaName)
			}

			path := outfitter.ConfigFile(c)
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				found, ok, err := resolve.Find(opts.resolveOptions())
				if err != nil {
					return err
				}
				if !ok {
					return outfittererrors.NewFileNotFoundError(resolve.Describe(opts.Name, opts.Formats))
				}
				path = found
			}

			data, err := loader.Load(path, opts.deps.Fs)
			if err != nil {
				return err
			}
			if data == nil {
				data = map[string]any{}
			}

			_, diagnostics := validation.ValidateWithDiagnostics(s, data)
			for _, d := range diagnostics {
				fmt.Fprintf(c.OutOrStdout(), "%s: %s: %s [%s]\n", d.Severity, d.Location(), d.Message, d.Code)
			}
			if validation.HasErrors(diagnostics) {
				return validation.NewValidationError(schemaName, validation.Errors(diagnostics))
			}
			fmt.Fprintf(c.OutOrStdout(), "%s is valid\n", path)

			return nil
		},
	}
	validateC.Flags().StringVar(&schemaName, "schema", schemaName, "registered schema to validate against {config,env}")

	return validateC
}

func makeSchemaC(_ *commonOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [name]",
		Short: "Print the JSON Schema (draft-7) of a registered schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			name := outfitter.ConfigSchemaName
			if len(args) > 0 {
				name = args[0]
			}

			registry := validation.NewRegistry()
			outfitter.RegisterSchemas(registry)
			s, ok := registry.Get(name)
			if !ok {
				return outfittererrors.NewSchemaNotFoundError(name)
			}
			out, err := validation.GenerateJSONSchema(s)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), string(out))

			return nil
		},
	}
}

// inCwd resolves relative paths against --cwd, when given.
func (o *commonOptions) inCwd(paths []string) []string {
	if o.Cwd == "" {
		return paths
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(o.Cwd, p)
		}
		out[i] = p
	}

	return out
}

func makeEnvC(opts *commonOptions) *cobra.Command {
	output := outputYAML
	dotenv := []string{".env"}

	envC := &cobra.Command{
		Use:   "env",
		Short: "Validate the OUTFITTER_* environment variables",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			v := validation.NewEnvValidator(outfitter.EnvSchema(), validation.EnvOptions{
				DotEnv:    opts.inCwd(dotenv),
				Prefix:    outfitter.Name,
				Modifiers: "trim",
				Fs:        opts.deps.Fs,
			})
			value, err := v.Validate(c.Context())
			if err != nil {
				return err
			}

			return write(c.OutOrStdout(), output, value)
		},
	}
	envC.Flags().StringSliceVar(&dotenv, "dotenv", dotenv, ".env files to read (earlier files win)")
	envC.Flags().VarP(enumflag.New(&output, "output", outputIds, enumflag.EnumCaseInsensitive), "output", "o", "output format {yaml,json}")

	return envC
}
