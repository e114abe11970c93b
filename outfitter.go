// Package outfitter resolves, loads, validates, and merges the configuration of the outfitter developer tooling.
//
// A configuration is searched in the project, user (XDG), and system scopes, loaded from TOML, JSONC, or YAML,
// validated against a strict schema, and merged with compiled-in defaults.
package outfitter

import (
	"path/filepath"
	"slices"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/leodido/outfitter/schema"
)

// Name is the default configuration name.
const Name = "outfitter"

// Feature names.
const (
	FeatureTypeScript = "typescript"
	FeatureBiome      = "biome"
	FeatureLefthook   = "lefthook"
	FeatureVSCode     = "vscode"
	FeatureClaude     = "claude"
	FeatureMarkdown   = "markdown"
	FeatureStyles     = "styles"
	FeaturePackages   = "packages"
)

// FeatureNames lists every feature, in declaration order.
var FeatureNames = []string{
	FeatureTypeScript,
	FeatureBiome,
	FeatureLefthook,
	FeatureVSCode,
	FeatureClaude,
	FeatureMarkdown,
	FeatureStyles,
	FeaturePackages,
}

// Features toggles the tooling capabilities.
type Features struct {
	TypeScript bool `mapstructure:"typescript" json:"typescript" yaml:"typescript"`
	Biome      bool `mapstructure:"biome" json:"biome" yaml:"biome"`
	Lefthook   bool `mapstructure:"lefthook" json:"lefthook" yaml:"lefthook"`
	VSCode     bool `mapstructure:"vscode" json:"vscode" yaml:"vscode"`
	Claude     bool `mapstructure:"claude" json:"claude" yaml:"claude"`
	Markdown   bool `mapstructure:"markdown" json:"markdown" yaml:"markdown"`
	Styles     bool `mapstructure:"styles" json:"styles" yaml:"styles"`
	Packages   bool `mapstructure:"packages" json:"packages" yaml:"packages"`
}

var defaultFeatures = Features{
	TypeScript: true,
	Biome:      true,
	Lefthook:   true,
	VSCode:     true,
	Claude:     true,
	Markdown:   true,
	Styles:     false,
	Packages:   false,
}

// DefaultFeatures returns a copy of the compiled-in feature defaults.
func DefaultFeatures() Features {
	return defaultFeatures
}

// Map returns the features by name.
func (f Features) Map() map[string]bool {
	return map[string]bool{
		FeatureTypeScript: f.TypeScript,
		FeatureBiome:      f.Biome,
		FeatureLefthook:   f.Lefthook,
		FeatureVSCode:     f.VSCode,
		FeatureClaude:     f.Claude,
		FeatureMarkdown:   f.Markdown,
		FeatureStyles:     f.Styles,
		FeaturePackages:   f.Packages,
	}
}

// Enabled tells whether the named feature is on.
func (f Features) Enabled(name string) bool {
	return f.Map()[name]
}

// ProjectType describes what kind of project is configured.
type ProjectType string

const (
	ProjectLibrary     ProjectType = "library"
	ProjectApplication ProjectType = "application"
	ProjectMonorepo    ProjectType = "monorepo"
	ProjectCLI         ProjectType = "cli"
)

// Framework is the main framework a project builds on.
type Framework string

const (
	FrameworkReact   Framework = "react"
	FrameworkNext    Framework = "next"
	FrameworkVue     Framework = "vue"
	FrameworkSvelte  Framework = "svelte"
	FrameworkExpress Framework = "express"
	FrameworkFastify Framework = "fastify"
	FrameworkNone    Framework = "none"
)

// PackageManager is the package manager a project uses.
type PackageManager string

const (
	PackageManagerNpm  PackageManager = "npm"
	PackageManagerYarn PackageManager = "yarn"
	PackageManagerPnpm PackageManager = "pnpm"
	PackageManagerBun  PackageManager = "bun"
)

// Project holds informational project metadata.
type Project struct {
	Type           ProjectType    `mapstructure:"type" json:"type,omitempty" yaml:"type,omitempty"`
	Framework      Framework      `mapstructure:"framework" json:"framework,omitempty" yaml:"framework,omitempty"`
	PackageManager PackageManager `mapstructure:"packageManager" json:"packageManager,omitempty" yaml:"packageManager,omitempty"`
	RootDir        string         `mapstructure:"rootDir" json:"rootDir,omitempty" yaml:"rootDir,omitempty"`
}

// Config is a fully resolved configuration.
//
// Every feature is always populated.
// Overrides, Project, Schema, and Extends are passed through from the input and are empty when absent.
type Config struct {
	Schema    string                    `mapstructure:"$schema" json:"$schema,omitempty" yaml:"$schema,omitempty"`
	Features  Features                  `mapstructure:"features" json:"features" yaml:"features"`
	Overrides map[string]map[string]any `mapstructure:"overrides" json:"overrides,omitempty" yaml:"overrides,omitempty"`
	Project   *Project                  `mapstructure:"project" json:"project,omitempty" yaml:"project,omitempty"`
	Ignore    []string                  `mapstructure:"ignore" json:"ignore" yaml:"ignore"`
	Extends   []string                  `mapstructure:"extends" json:"extends,omitempty" yaml:"extends,omitempty"`
	Presets   []string                  `mapstructure:"presets" json:"presets" yaml:"presets"`
}

// Default returns a new configuration holding the compiled-in defaults.
//
// Every call returns an independent value.
func Default() *Config {
	return &Config{
		Features: DefaultFeatures(),
		Ignore:   []string{},
		Presets:  []string{},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := &Config{
		Schema:   c.Schema,
		Features: c.Features,
		Ignore:   cloneStrings(c.Ignore),
		Presets:  cloneStrings(c.Presets),
	}
	if c.Extends != nil {
		out.Extends = slices.Clone(c.Extends)
	}
	if c.Project != nil {
		project := *c.Project
		out.Project = &project
	}
	if c.Overrides != nil {
		out.Overrides = make(map[string]map[string]any, len(c.Overrides))
		for tool, settings := range c.Overrides {
			copied, _ := schema.Validate(schema.Any(), settings)
			out.Overrides[tool], _ = copied.(map[string]any)
		}
	}

	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}

	return slices.Clone(in)
}

// EnabledFeatures returns the names of the features that are on, sorted.
func (c *Config) EnabledFeatures() []string {
	var names []string
	for name, on := range c.Features.Map() {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names
}

// IsIgnored tells whether path matches any of the ignore globs.
//
// Paths are matched with forward slashes; invalid patterns never match.
func (c *Config) IsIgnored(path string) bool {
	path = filepath.ToSlash(path)
	for _, pattern := range c.Ignore {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}

	return false
}
