// Package resolve computes where a named configuration might live and finds the one that does.
package resolve

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	outfittererrors "github.com/leodido/outfitter/errors"
	internallogging "github.com/leodido/outfitter/internal/logging"
	"github.com/leodido/outfitter/xdg"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Options drives path resolution.
type Options struct {
	Name        string      // Config name, eg. "outfitter"
	Formats     []Format    // Format precedence (defaults to DefaultFormats)
	Scope       Scope       // Scope to search (defaults to ScopeAll)
	SearchPaths []string    // Explicit candidates; when non-empty nothing else is computed
	Cwd         string      // Project directory (defaults to the current working directory)
	Source      xdg.Source  // Environment for the user scope (defaults to the process environment)
	Fs          afero.Fs    // Filesystem used by Find (defaults to the OS filesystem)
	Logger      *zap.Logger // Defaults to a no-op logger
}

func (o Options) formats() []Format {
	if len(o.Formats) == 0 {
		return DefaultFormats
	}

	return o.Formats
}

func (o Options) cwd() string {
	cwd := o.Cwd
	if cwd == "" {
		cwd, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(cwd); err == nil {
		return abs
	}

	return cwd
}

func (o Options) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}

	return o.Fs
}

func (o Options) logger() *zap.Logger {
	return internallogging.OrNop(o.Logger)
}

// Paths returns the candidate config file paths, highest priority first.
//
// Explicit search paths are returned as they are.
// Otherwise the order is scope-major (project, user, default), format-minor, pattern-tertiary.
// Duplicates are kept. Paths never touches the filesystem.
func Paths(opts Options) []string {
	if len(opts.SearchPaths) > 0 {
		return slices.Clone(opts.SearchPaths)
	}

	var paths []string
	cwd := ""
	for _, scope := range precedence {
		if !opts.Scope.includes(scope) {
			continue
		}
		for _, format := range opts.formats() {
			ext := NormalizeFormat(format).String()

			switch scope {
			case ScopeProject:
				if cwd == "" {
					cwd = opts.cwd()
				}
				paths = append(paths,
					filepath.Join(cwd, opts.Name+".config."+ext),
					filepath.Join(cwd, ".config", opts.Name, "config."+ext),
				)

			case ScopeUser:
				if home := xdg.ConfigHome(opts.Source); home != "" {
					paths = append(paths, xdg.ConfigPath(home, opts.Name, ext))
				}
				paths = append(paths, xdg.SearchPaths(opts.Source, opts.Name, ext)...)

			case ScopeDefault:
				paths = append(paths, filepath.Join("/etc", opts.Name, "config."+ext))
			}
		}
	}

	return paths
}

// Templates returns masked search locations (eg., $XDG_CONFIG_HOME) for help messages.
func Templates(name string) []string {
	return []string{
		filepath.Join("$PWD", name+".config"),
		filepath.Join("$PWD", ".config", name, "config"),
		filepath.Join("$"+xdg.EnvConfigHome, name, "config"),
		filepath.Join("/etc", name, "config"),
	}
}

// Find returns the first candidate of Paths that exists as a regular file.
//
// Candidates are checked one at a time, in order.
// A missing file is not an error: found is false when no candidate exists.
// Any other failure while checking a candidate (eg., permissions) is returned.
func Find(opts Options) (path string, found bool, err error) {
	fsys := opts.fs()
	log := opts.logger()

	for _, candidate := range Paths(opts) {
		info, err := fsys.Stat(candidate)
		if err != nil {
			if isAbsent(err) {
				log.Debug("config candidate not found", zap.String("path", candidate))

				continue
			}

			return "", false, outfittererrors.NewReadError(candidate, err)
		}
		if info.IsDir() {
			log.Debug("config candidate is a directory", zap.String("path", candidate))

			continue
		}
		log.Debug("config file found", zap.String("path", candidate))

		return candidate, true, nil
	}

	return "", false, nil
}

func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// Describe summarizes the search locations for name, eg. for a flag description.
func Describe(name string, formats []Format) string {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	exts := make([]string, 0, len(formats))
	for _, f := range formats {
		if ext := f.Extension(); !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}

	return "{" + strings.Join(Templates(name), ",") + "}.{" + strings.Join(exts, ",") + "}"
}
