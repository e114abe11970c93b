package outfitter

import (
	"encoding/json"
	"errors"

	outfittererrors "github.com/leodido/outfitter/errors"
	"github.com/leodido/outfitter/schema"
	"github.com/leodido/outfitter/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *outfitterSuite) TestDefault_Isolation() {
	a := Default()
	b := Default()

	assert.Equal(suite.T(), a, b)
	assert.NotSame(suite.T(), a, b)

	a.Features.TypeScript = false
	a.Ignore = append(a.Ignore, "dist/**")

	c := Default()
	assert.True(suite.T(), b.Features.TypeScript)
	assert.True(suite.T(), c.Features.TypeScript)
	assert.Empty(suite.T(), c.Ignore)
	assert.True(suite.T(), DefaultFeatures().TypeScript)
}

func (suite *outfitterSuite) TestDefaultFeatures() {
	assert.Equal(suite.T(), map[string]bool{
		"typescript": true,
		"biome":      true,
		"lefthook":   true,
		"vscode":     true,
		"claude":     true,
		"markdown":   true,
		"styles":     false,
		"packages":   false,
	}, DefaultFeatures().Map())
}

func (suite *outfitterSuite) TestParse_EmptyInputYieldsDefaults() {
	for _, input := range []any{map[string]any{}, nil} {
		cfg, err := Parse(input)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), DefaultFeatures(), cfg.Features)
		assert.NotNil(suite.T(), cfg.Ignore)
		assert.Empty(suite.T(), cfg.Ignore)
		assert.NotNil(suite.T(), cfg.Presets)
		assert.Empty(suite.T(), cfg.Presets)
		assert.Nil(suite.T(), cfg.Overrides)
		assert.Nil(suite.T(), cfg.Project)
		assert.Nil(suite.T(), cfg.Extends)
		assert.Empty(suite.T(), cfg.Schema)
	}
}

func (suite *outfitterSuite) TestParse_MergePrecedence() {
	cfg, err := Parse(map[string]any{
		"features": map[string]any{"styles": true, "packages": true},
	})

	require.NoError(suite.T(), err)
	assert.True(suite.T(), cfg.Features.Styles)
	assert.True(suite.T(), cfg.Features.Packages)

	defaults := DefaultFeatures().Map()
	for _, name := range FeatureNames[:6] {
		assert.Equal(suite.T(), defaults[name], cfg.Features.Enabled(name), name)
	}
}

func (suite *outfitterSuite) TestParse_UserValuesWinPerKey() {
	cfg, err := Parse(map[string]any{"features": map[string]any{"typescript": false}})

	require.NoError(suite.T(), err)
	assert.False(suite.T(), cfg.Features.TypeScript)
	assert.True(suite.T(), cfg.Features.Biome)
}

func (suite *outfitterSuite) TestParse_OverridesAreNotMutated() {
	biome := map[string]any{"lineWidth": 100, "rules": []any{"a"}}
	input := map[string]any{"overrides": map[string]any{"biome": biome}}

	cfg, err := Parse(input)
	require.NoError(suite.T(), err)

	_, hasPrettier := cfg.Overrides["prettier"]
	assert.False(suite.T(), hasPrettier)
	assert.Equal(suite.T(), 100, cfg.Overrides["biome"]["lineWidth"])

	cfg.Overrides["biome"]["lineWidth"] = 80
	cfg.Overrides["biome"]["rules"].([]any)[0] = "b"
	cfg.Overrides["eslint"] = map[string]any{}

	assert.Equal(suite.T(), map[string]any{
		"overrides": map[string]any{
			"biome": map[string]any{"lineWidth": 100, "rules": []any{"a"}},
		},
	}, input)
	assert.Len(suite.T(), input["overrides"], 1)
}

func (suite *outfitterSuite) TestParse_PassThrough() {
	cfg, err := Parse(map[string]any{
		"$schema": "https://outfitter.dev/schema.json",
		"project": map[string]any{"type": "cli", "framework": "none", "packageManager": "bun", "rootDir": "src"},
		"extends": "base",
		"presets": []any{"strict"},
		"ignore":  []any{"dist/**", "*.gen.ts"},
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://outfitter.dev/schema.json", cfg.Schema)
	assert.Equal(suite.T(), &Project{Type: ProjectCLI, Framework: FrameworkNone, PackageManager: PackageManagerBun, RootDir: "src"}, cfg.Project)
	assert.Equal(suite.T(), []string{"base"}, cfg.Extends)
	assert.Equal(suite.T(), []string{"strict"}, cfg.Presets)
	assert.Equal(suite.T(), []string{"dist/**", "*.gen.ts"}, cfg.Ignore)

	list, err := Parse(map[string]any{"extends": []any{"a", "b"}})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"a", "b"}, list.Extends)
}

func (suite *outfitterSuite) TestParse_ValidationFailure() {
	_, err := Parse(map[string]any{"features": map[string]any{"typescript": "yes"}})

	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "typescript")
	assert.True(suite.T(), errors.Is(err, outfittererrors.ErrConfigValidation))

	code := outfittererrors.CodeOf(err)
	assert.True(suite.T(), code.IsConfigValidation())
	assert.NotEqual(suite.T(), outfittererrors.CodeConfigUnexpected, code)

	var cerr *outfittererrors.ConfigValidationError
	require.True(suite.T(), errors.As(err, &cerr))
	assert.Equal(suite.T(), []string{"features.typescript: Expected boolean, received string"}, cerr.Issues)
}

func (suite *outfitterSuite) TestParse_EveryViolationIsReported() {
	_, err := Parse(map[string]any{
		"features":  map[string]any{"typescript": "yes", "unknown": true},
		"project":   map[string]any{"type": "plugin", "extra": 1},
		"overrides": map[string]any{"biome": "not-an-object"},
		"ignore":    "dist",
		"extends":   3,
		"bogus":     true,
	})

	var cerr *outfittererrors.ConfigValidationError
	require.True(suite.T(), errors.As(err, &cerr))
	assert.Equal(suite.T(), []string{
		"features.typescript: Expected boolean, received string",
		"features: Unrecognized key(s) in object: 'unknown'",
		"overrides.biome: Expected object, received string",
		"project.type: Invalid enum value. Expected 'library' | 'application' | 'monorepo' | 'cli', received 'plugin'",
		"project: Unrecognized key(s) in object: 'extra'",
		"ignore: Expected array, received string",
		"extends: Invalid input: expected string or array",
		"<root>: Unrecognized key(s) in object: 'bogus'",
	}, cerr.Issues)
}

func (suite *outfitterSuite) TestParse_NonObjectInput() {
	_, err := Parse("features")

	assert.ErrorIs(suite.T(), err, outfittererrors.ErrConfigValidation)
	assert.Contains(suite.T(), err.Error(), "<root>: Expected object, received string")
}

func (suite *outfitterSuite) TestParse_InvalidIgnoreGlobIsAdvisory() {
	cfg, warnings, err := ParseWithWarnings(map[string]any{"ignore": []any{"dist/**", "[unclosed"}})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"dist/**", "[unclosed"}, cfg.Ignore)
	require.Len(suite.T(), warnings, 1)
	assert.Equal(suite.T(), validation.SeverityWarning, warnings[0].Severity)
	assert.Equal(suite.T(), "ignore.1", warnings[0].Location())

	_, issues := schema.Validate(ConfigSchema(), map[string]any{"ignore": []any{"[unclosed"}})
	require.Len(suite.T(), issues, 1)
	assert.Equal(suite.T(), "glob", issues[0].Params["validation"])
}

func (suite *outfitterSuite) TestMustParse() {
	assert.True(suite.T(), MustParse(nil).Features.Biome)

	assert.PanicsWithError(suite.T(), "invalid configuration: features.biome: Expected boolean, received number", func() {
		MustParse(map[string]any{"features": map[string]any{"biome": 1}})
	})
}

func (suite *outfitterSuite) TestClone() {
	cfg := MustParse(map[string]any{
		"overrides": map[string]any{"biome": map[string]any{"nested": map[string]any{"k": "v"}}},
		"project":   map[string]any{"type": "library"},
		"extends":   []any{"a"},
	})

	clone := cfg.Clone()
	require.Equal(suite.T(), cfg, clone)

	clone.Overrides["biome"]["nested"].(map[string]any)["k"] = "changed"
	clone.Project.Type = ProjectMonorepo
	clone.Extends[0] = "b"

	assert.Equal(suite.T(), "v", cfg.Overrides["biome"]["nested"].(map[string]any)["k"])
	assert.Equal(suite.T(), ProjectLibrary, cfg.Project.Type)
	assert.Equal(suite.T(), []string{"a"}, cfg.Extends)

	var nilCfg *Config
	assert.Nil(suite.T(), nilCfg.Clone())
}

func (suite *outfitterSuite) TestEnabledFeatures() {
	cfg := MustParse(map[string]any{"features": map[string]any{"claude": false, "styles": true}})

	assert.Equal(suite.T(), []string{"biome", "lefthook", "markdown", "styles", "typescript", "vscode"}, cfg.EnabledFeatures())
}

func (suite *outfitterSuite) TestIsIgnored() {
	cfg := MustParse(map[string]any{"ignore": []any{"dist/**", "**/*.gen.ts", "[unclosed"}})

	assert.True(suite.T(), cfg.IsIgnored("dist/index.js"))
	assert.True(suite.T(), cfg.IsIgnored("src/api/client.gen.ts"))
	assert.False(suite.T(), cfg.IsIgnored("src/index.ts"))
	assert.False(suite.T(), Default().IsIgnored("dist/index.js"))
}

func (suite *outfitterSuite) TestJSONSchema_InSyncWithValidation() {
	out, err := JSONSchema()
	require.NoError(suite.T(), err)

	var doc map[string]any
	require.NoError(suite.T(), json.Unmarshal(out, &doc))
	assert.Equal(suite.T(), "http://json-schema.org/draft-07/schema#", doc["$schema"])
	assert.Equal(suite.T(), false, doc["additionalProperties"])
	assert.Nil(suite.T(), doc["required"])

	props := doc["properties"].(map[string]any)
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	assert.ElementsMatch(suite.T(), ConfigSchema().Keys(), keys)

	features := props["features"].(map[string]any)
	assert.Equal(suite.T(), false, features["additionalProperties"])
	assert.Len(suite.T(), features["properties"], len(FeatureNames))

	project := props["project"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(suite.T(), []any{"npm", "yarn", "pnpm", "bun"}, project["packageManager"].(map[string]any)["enum"])
}

func (suite *outfitterSuite) TestRegisterSchemas() {
	r := validation.NewRegistry()
	RegisterSchemas(r)

	assert.Equal(suite.T(), []string{ConfigSchemaName, EnvSchemaName}, r.List())

	_, err := r.Validate(ConfigSchemaName, map[string]any{"features": map[string]any{"typescript": "yes"}})
	verr, ok := validation.AsValidationError(err)
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "Validation failed for config: features.typescript: Expected boolean, received string", verr.Summary())

	_, err = r.Validate(EnvSchemaName, map[string]any{"LOGLEVEL": "debug", "SCOPE": "user", "LOGLVL": "x"})
	verr, ok = validation.AsValidationError(err)
	require.True(suite.T(), ok)
	require.Len(suite.T(), verr.Diagnostics, 1)
	assert.Equal(suite.T(), "<root>: Unrecognized key(s) in object: 'LOGLVL'", verr.Diagnostics[0].String())
}
