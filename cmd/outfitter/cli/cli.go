package cli

import (
	"fmt"
	"strings"

	"github.com/leodido/outfitter"
	internalenv "github.com/leodido/outfitter/internal/env"
	internalhooks "github.com/leodido/outfitter/internal/hooks"
	internallogging "github.com/leodido/outfitter/internal/logging"
	"github.com/leodido/outfitter/resolve"
	"github.com/leodido/outfitter/xdg"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thediveo/enumflag/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Deps are the outside world the commands work against.
type Deps struct {
	Fs     afero.Fs
	Source xdg.Source
}

// commonOptions are the persistent options every subcommand shares.
type commonOptions struct {
	LogLevel zapcore.Level `mapstructure:"loglevel"`
	Cwd      string        `mapstructure:"cwd"`
	Name     string
	Scope    resolve.Scope
	Formats  []resolve.Format

	deps   Deps
	logger *zap.Logger
}

func (o *commonOptions) attach(c *cobra.Command) error {
	flags := c.PersistentFlags()
	internallogging.LevelFlag(flags, &o.LogLevel, "loglevel", "", "set the log level")
	flags.StringVar(&o.Name, "name", outfitter.Name, "configuration name")
	flags.StringVar(&o.Cwd, "cwd", "", "project directory (defaults to the working directory)")
	flags.Var(enumflag.New(&o.Scope, "scope", resolve.ScopeIds, enumflag.EnumCaseInsensitive), "scope", "scope to search {all,project,user,default}")
	flags.Var(enumflag.NewSlice(&o.Formats, "format", resolve.FormatIds, enumflag.EnumCaseInsensitive), "format", "format precedence {toml,jsonc,yaml,yml,json} (defaults to toml,jsonc,yaml)")

	v := outfitter.GetViper(c)
	for _, key := range []string{"loglevel", "cwd"} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return err
		}
		if err := v.BindEnv(key, internalenv.Var(outfitter.Name, key)); err != nil {
			return err
		}
	}

	return nil
}

// initialize resolves the flag and environment values, then creates the logger.
func (o *commonOptions) initialize(c *cobra.Command) error {
	if err := outfitter.GetViper(c).Unmarshal(o, viper.DecodeHook(internalhooks.DecodeHook())); err != nil {
		return fmt.Errorf("couldn't read options: %w", err)
	}
	o.logger = internallogging.New(o.LogLevel, c.ErrOrStderr())

	return nil
}

func (o *commonOptions) resolveOptions() resolve.Options {
	return resolve.Options{
		Name:    o.Name,
		Formats: o.Formats,
		Scope:   o.Scope,
		Cwd:     o.Cwd,
		Source:  o.deps.Source,
		Fs:      o.deps.Fs,
		Logger:  o.logger,
	}
}

func (o *commonOptions) loadOptions() outfitter.LoadOptions {
	return outfitter.LoadOptions{Options: o.resolveOptions()}
}

// NewRootC creates the outfitter command working against the OS filesystem and environment.
func NewRootC() *cobra.Command {
	return New(Deps{Fs: afero.NewOsFs(), Source: xdg.OSSource{}})
}

// New creates the outfitter command.
func New(deps Deps) *cobra.Command {
	opts := &commonOptions{deps: deps}

	rootC := &cobra.Command{
		Use:           outfitter.Name,
		Short:         "Resolve, load, and validate outfitter configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return opts.initialize(c)
		},
	}

	if err := outfitter.SetupConfig(rootC, outfitter.ConfigOptions{AppName: outfitter.Name}); err != nil {
		panic(err)
	}
	if err := opts.attach(rootC); err != nil {
		panic(err)
	}

	rootC.AddCommand(
		makePathsC(opts),
		makeFindC(opts),
		makeShowC(opts),
		makeValidateC(opts),
		makeSchemaC(opts),
		makeEnvC(opts),
	)

	return rootC
}

func makePathsC(opts *commonOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the candidate configuration paths, highest precedence first",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ropts := opts.resolveOptions()
			if file := outfitter.ConfigFile(c); file != "" {
				ropts.SearchPaths = []string{file}
			}
			fmt.Fprintln(c.OutOrStdout(), strings.Join(resolve.Paths(ropts), "\n"))

			return nil
		},
	}
}

func makeFindC(opts *commonOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ropts := opts.resolveOptions()
			if file := outfitter.ConfigFile(c); file != "" {
				ropts.SearchPaths = []string{file}
			}
			path, found, err := resolve.Find(ropts)
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintln(c.ErrOrStderr(), "no configuration file found, defaults apply")

				return nil
			}
			fmt.Fprintln(c.OutOrStdout(), path)

			return nil
		},
	}
}
