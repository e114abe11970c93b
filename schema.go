package outfitter

import (
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	internallogging "github.com/leodido/outfitter/internal/logging"
	"github.com/leodido/outfitter/resolve"
	"github.com/leodido/outfitter/schema"
	"github.com/leodido/outfitter/validation"
)

// Names the schemas of this package are registered with.
const (
	ConfigSchemaName = "config"
	EnvSchemaName    = validation.EnvSchemaName
)

var (
	configSchema = sync.OnceValue(newConfigSchema)
	envSchema    = sync.OnceValue(newEnvSchema)
)

// ConfigSchema returns the schema configuration files are validated against.
//
// Objects are strict at every level: unknown keys are reported, never dropped.
func ConfigSchema() *schema.ObjectSchema {
	return configSchema()
}

func newConfigSchema() *schema.ObjectSchema {
	features := make([]schema.Property, len(FeatureNames))
	for i, name := range FeatureNames {
		features[i] = schema.Prop(name, schema.Optional(schema.Bool()))
	}

	glob := schema.Refine(schema.String(), func(v any) bool {
		return doublestar.ValidatePattern(v.(string))
	}, "Invalid glob pattern, it will never match", schema.Advisory(), schema.WithParams(map[string]any{"validation": "glob"}))

	return schema.Object(
		schema.Prop("$schema", schema.Optional(schema.Describe(schema.String(), "JSON Schema this file conforms to"))),
		schema.Prop("features", schema.Optional(schema.Describe(schema.Object(features...).Strict(), "Tooling capabilities to enable"))),
		schema.Prop("overrides", schema.Optional(schema.Describe(schema.Record(schema.Record(schema.Any())), "Settings passed as-is to each tool"))),
		schema.Prop("project", schema.Optional(schema.Describe(schema.Object(
			schema.Prop("type", schema.Optional(schema.Enum("library", "application", "monorepo", "cli"))),
			schema.Prop("framework", schema.Optional(schema.Enum("react", "next", "vue", "svelte", "express", "fastify", "none"))),
			schema.Prop("packageManager", schema.Optional(schema.Enum("npm", "yarn", "pnpm", "bun"))),
			schema.Prop("rootDir", schema.Optional(schema.String())),
		).Strict(), "Project metadata"))),
		schema.Prop("ignore", schema.Default(schema.Describe(schema.Array(glob), "Glob patterns of paths to leave alone"), []any{})),
		schema.Prop("extends", schema.Optional(schema.Describe(schema.Union(schema.String(), schema.Array(schema.String())), "Configurations this one extends"))),
		schema.Prop("presets", schema.Default(schema.Describe(schema.Array(schema.String()), "Presets to apply"), []any{})),
	).Strict()
}

// EnvSchema returns the schema of the OUTFITTER_* environment variables (prefix stripped).
func EnvSchema() *schema.ObjectSchema {
	return envSchema()
}

func newEnvSchema() *schema.ObjectSchema {
	scopes := make([]string, 0, len(resolve.ScopeIds))
	for _, scope := range []resolve.Scope{resolve.ScopeAll, resolve.ScopeProject, resolve.ScopeUser, resolve.ScopeDefault} {
		scopes = append(scopes, scope.String())
	}
	formats := make([]string, 0, len(resolve.FormatIds))
	for _, format := range []resolve.Format{resolve.FormatTOML, resolve.FormatJSONC, resolve.FormatYAML, resolve.FormatYML, resolve.FormatJSON} {
		formats = append(formats, format.String())
	}

	return schema.Object(
		schema.Prop("CONFIG", schema.Optional(schema.String().Tag("min=1"))),
		schema.Prop("LOGLEVEL", schema.Optional(schema.Enum(internallogging.LevelNames()...))),
		schema.Prop("SCOPE", schema.Optional(schema.Enum(scopes...))),
		schema.Prop("FORMAT", schema.Optional(schema.Enum(formats...))),
		schema.Prop("CWD", schema.Optional(schema.String().Tag("min=1"))),
	).Strict()
}

// RegisterSchemas registers the configuration and environment schemas into r.
func RegisterSchemas(r *validation.Registry) {
	r.Register(ConfigSchemaName, ConfigSchema())
	r.Register(EnvSchemaName, EnvSchema())
}

// JSONSchema renders the JSON Schema (draft-7) document describing configuration files, for editors.
func JSONSchema() ([]byte, error) {
	return validation.GenerateJSONSchema(ConfigSchema())
}
