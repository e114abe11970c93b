// Package loader reads configuration files and parses them into untyped values.
//
// Loaders never validate: the returned value is whatever the format parser produced.
package loader

import (
	"errors"
	"path/filepath"

	outfittererrors "github.com/leodido/outfitter/errors"
	"github.com/leodido/outfitter/resolve"
	"github.com/spf13/afero"
)

// Loader loads a single configuration format.
type Loader interface {
	Format() resolve.Format
	// Load returns the parsed content of the file at path.
	//
	// A missing file yields a *errors.FileNotFoundError, I/O failures a *errors.ReadError, malformed content a *errors.ParseError.
	Load(path string) (any, error)
}

// decodeFunc parses raw file content.
type decodeFunc func(data []byte) (any, error)

// fileLoader implements the existence check, read, and error wrapping shared by every format.
type fileLoader struct {
	fs     afero.Fs
	format resolve.Format
	decode decodeFunc
}

func newFileLoader(fs afero.Fs, format resolve.Format, decode decodeFunc) *fileLoader {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &fileLoader{fs: fs, format: format, decode: decode}
}

func (l *fileLoader) Format() resolve.Format {
	return l.format
}

func (l *fileLoader) Load(path string) (any, error) {
	exists, err := afero.Exists(l.fs, path)
	if err != nil {
		return nil, outfittererrors.NewReadError(path, err)
	}
	if !exists {
		return nil, outfittererrors.NewFileNotFoundError(path)
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, outfittererrors.NewReadError(path, err)
	}

	value, err := l.safeDecode(data)
	if err != nil {
		return nil, outfittererrors.NewParseError(path, l.format.String(), err)
	}

	return value, nil
}

// safeDecode turns parser panics into errors.
func (l *fileLoader) safeDecode(data []byte) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &panicError{r}
		}
	}()

	return l.decode(data)
}

// ForFormat returns the loader for the given format.
//
// JSON files are parsed like JSONC since JSON is a subset of it.
func ForFormat(format resolve.Format, fs afero.Fs) Loader {
	switch resolve.NormalizeFormat(format) {
	case resolve.FormatTOML:
		return NewTOML(fs)
	case resolve.FormatYAML:
		return NewYAML(fs)
	case resolve.FormatJSON:
		return newFileLoader(fs, resolve.FormatJSON, decodeJSONC)
	default:
		return NewJSONC(fs)
	}
}

// ForPath picks the loader matching the extension of path.
func ForPath(path string, fs afero.Fs) (Loader, error) {
	format, err := resolve.ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	return ForFormat(format, fs), nil
}

// Load loads path with the loader matching its extension.
func Load(path string, fs afero.Fs) (any, error) {
	l, err := ForPath(path, fs)
	if err != nil {
		return nil, err
	}

	return l.Load(path)
}

// LoadFirst tries the candidates in order and returns the content of the first one that exists.
//
// Only missing files are skipped: any other failure stops the search.
// When no candidate exists the returned path is empty and the error is nil.
func LoadFirst(candidates []string, fs afero.Fs) (path string, value any, err error) {
	for _, candidate := range candidates {
		value, err := Load(candidate, fs)
		if err != nil {
			if errors.Is(err, outfittererrors.ErrFileNotFound) {
				continue
			}

			return candidate, nil, err
		}

		return candidate, value, nil
	}

	return "", nil, nil
}
