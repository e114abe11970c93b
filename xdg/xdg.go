// Package xdg locates user-level configuration directories following the XDG Base Directory Specification.
//
// Nothing is cached: every call consults the given Source, so changes to the environment are observed immediately.
package xdg

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// EnvConfigHome overrides the user configuration home directory.
	EnvConfigHome = "XDG_CONFIG_HOME"
	// EnvConfigDirs lists supplementary configuration directories, colon-separated.
	EnvConfigDirs = "XDG_CONFIG_DIRS"
	// DefaultConfigDir is used when EnvConfigDirs is unset or empty.
	DefaultConfigDir = "/etc/xdg"
)

// Source provides the environment the resolver reads from.
type Source interface {
	Getenv(key string) string
	HomeDir() (string, error)
}

// OSSource reads the real process environment.
type OSSource struct{}

func (OSSource) Getenv(key string) string {
	return os.Getenv(key)
}

func (OSSource) HomeDir() (string, error) {
	return os.UserHomeDir()
}

// MapSource is a fixed environment, mostly useful in tests.
type MapSource struct {
	Env  map[string]string
	Home string
}

func (m MapSource) Getenv(key string) string {
	return m.Env[key]
}

func (m MapSource) HomeDir() (string, error) {
	return m.Home, nil
}

func orOS(src Source) Source {
	if src == nil {
		return OSSource{}
	}

	return src
}

// ConfigHome returns the user configuration home directory.
//
// It is $XDG_CONFIG_HOME when set and non-empty, otherwise $HOME/.config (%APPDATA% on Windows when available).
// It is empty when the home directory cannot be determined.
func ConfigHome(src Source) string {
	src = orOS(src)
	if dir := strings.TrimSpace(src.Getenv(EnvConfigHome)); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		if appData := src.Getenv("APPDATA"); appData != "" {
			return appData
		}
	}
	home, err := src.HomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return ""
	}

	return filepath.Join(home, ".config")
}

// ConfigDirs returns the supplementary configuration directories from $XDG_CONFIG_DIRS.
//
// Empty entries are dropped. When nothing remains the result is DefaultConfigDir alone.
func ConfigDirs(src Source) []string {
	src = orOS(src)
	var dirs []string
	for _, dir := range strings.Split(src.Getenv(EnvConfigDirs), ":") {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return []string{DefaultConfigDir}
	}

	return dirs
}

// SearchDirs returns the config home followed by the supplementary directories.
//
// The config home is left out when it cannot be determined.
func SearchDirs(src Source) []string {
	home := ConfigHome(src)
	if home == "" {
		return ConfigDirs(src)
	}

	return append([]string{home}, ConfigDirs(src)...)
}

// ConfigPath builds {dir}/{name}/config.{ext}.
func ConfigPath(dir, name, ext string) string {
	return filepath.Join(dir, name, "config."+ext)
}

// SearchPaths builds the config path for name and ext in every search directory, in order.
func SearchPaths(src Source, name, ext string) []string {
	dirs := SearchDirs(src)
	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		paths = append(paths, ConfigPath(dir, name, ext))
	}

	return paths
}
