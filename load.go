package outfitter

import (
	outfittererrors "github.com/leodido/outfitter/errors"
	internallogging "github.com/leodido/outfitter/internal/logging"
	"github.com/leodido/outfitter/loader"
	"github.com/leodido/outfitter/resolve"
	"github.com/leodido/outfitter/validation"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// LoadOptions drives Load.
type LoadOptions struct {
	resolve.Options

	// Required makes Load fail with a *errors.FileNotFoundError when no candidate exists, instead of using the defaults.
	Required bool
}

// LoadResult is a loaded configuration.
type LoadResult struct {
	Config   *Config
	Source   string                  // Path of the file the configuration comes from, empty when the defaults were used
	Format   resolve.Format          // Format of Source
	Warnings []validation.Diagnostic // Advisory diagnostics
}

// Load finds the highest-precedence configuration file, loads it, and parses it.
//
// When no file exists the defaults are returned, unless opts.Required is set.
func Load(opts LoadOptions) (*LoadResult, error) {
	if opts.Name == "" {
		opts.Name = Name
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	log := internallogging.OrNop(opts.Logger)

	path, found, err := resolve.Find(opts.Options)
	if err != nil {
		return nil, err
	}
	if !found {
		if opts.Required {
			where := resolve.Describe(opts.Name, opts.Formats)
			if len(opts.SearchPaths) == 1 {
				where = opts.SearchPaths[0]
			}

			return nil, outfittererrors.NewFileNotFoundError(where)
		}
		log.Debug("no configuration file found, using defaults", zap.String("name", opts.Name))

		return &LoadResult{Config: Default()}, nil
	}

	l, err := loader.ForPath(path, opts.Fs)
	if err != nil {
		return nil, err
	}
	data, err := l.Load(path)
	if err != nil {
		return nil, err
	}

	cfg, warnings, err := ParseWithWarnings(data)
	if err != nil {
		log.Debug("invalid configuration file", zap.String("path", path), zap.Error(err))

		return nil, err
	}
	for _, w := range warnings {
		log.Warn(w.Message, zap.String("path", path), zap.String("key", w.Location()))
	}
	log.Debug("configuration loaded", zap.String("path", path), zap.Stringer("format", l.Format()))

	return &LoadResult{
		Config:   cfg,
		Source:   path,
		Format:   l.Format(),
		Warnings: warnings,
	}, nil
}
