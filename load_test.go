package outfitter

import (
	"bytes"
	"errors"

	outfittererrors "github.com/leodido/outfitter/errors"
	internallogging "github.com/leodido/outfitter/internal/logging"
	"github.com/leodido/outfitter/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func (suite *outfitterSuite) TestLoad_NoFileUsesDefaults() {
	res, err := Load(suite.loadOptions())

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), res.Source)
	assert.Equal(suite.T(), Default(), res.Config)
}

func (suite *outfitterSuite) TestLoad_EmptyFileUsesDefaults() {
	for _, name := range []string{"outfitter.config.toml", "outfitter.config.jsonc", "outfitter.config.yaml"} {
		suite.Run(name, func() {
			suite.SetupTest()
			suite.write("/work/"+name, "")

			res, err := Load(suite.loadOptions())

			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), "/work/"+name, res.Source)
			assert.Equal(suite.T(), Default(), res.Config)
		})
	}
}

func (suite *outfitterSuite) TestLoad_ProjectScopeWins() {
	suite.write("/home/u/.config/outfitter/config.toml", "[features]\nstyles = true\n")
	suite.write("/work/.config/outfitter/config.yaml", "features:\n  packages: true\n")
	suite.write("/work/outfitter.config.jsonc", `{
  // project level
  "features": { "vscode": false, },
}`)

	res, err := Load(suite.loadOptions())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/work/outfitter.config.jsonc", res.Source)
	assert.Equal(suite.T(), resolve.FormatJSONC, res.Format)
	assert.False(suite.T(), res.Config.Features.VSCode)
	assert.False(suite.T(), res.Config.Features.Styles)
	assert.False(suite.T(), res.Config.Features.Packages)
}

func (suite *outfitterSuite) TestLoad_FormatPrecedenceWithinScope() {
	suite.write("/work/.config/outfitter/config.toml", "presets = [\"toml\"]\n")
	suite.write("/work/outfitter.config.yaml", "presets: [yaml]\n")

	res, err := Load(suite.loadOptions())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/work/.config/outfitter/config.toml", res.Source)
	assert.Equal(suite.T(), []string{"toml"}, res.Config.Presets)

	opts := suite.loadOptions()
	opts.Formats = []resolve.Format{resolve.FormatYML, resolve.FormatTOML}
	res, err = Load(opts)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/work/outfitter.config.yaml", res.Source)
	assert.Equal(suite.T(), resolve.FormatYAML, res.Format)
}

func (suite *outfitterSuite) TestLoad_UserScope() {
	suite.write("/home/u/.config/outfitter/config.yaml", "project:\n  type: monorepo\n")

	opts := suite.loadOptions()
	opts.Scope = resolve.ScopeUser
	res, err := Load(opts)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/home/u/.config/outfitter/config.yaml", res.Source)
	assert.Equal(suite.T(), ProjectMonorepo, res.Config.Project.Type)
}

func (suite *outfitterSuite) TestLoad_Required() {
	opts := suite.loadOptions()
	opts.SearchPaths = []string{"/missing/outfitter.toml"}
	opts.Required = true

	_, err := Load(opts)

	assert.ErrorIs(suite.T(), err, outfittererrors.ErrFileNotFound)
	assert.Contains(suite.T(), err.Error(), "/missing/outfitter.toml")
}

func (suite *outfitterSuite) TestLoad_InvalidContent() {
	suite.write("/work/outfitter.config.toml", "[features]\ntypescript = \"yes\"\n")

	_, err := Load(suite.loadOptions())

	assert.ErrorIs(suite.T(), err, outfittererrors.ErrConfigValidation)
	assert.Contains(suite.T(), err.Error(), "features.typescript")
}

func (suite *outfitterSuite) TestLoad_MalformedFile() {
	suite.write("/work/outfitter.config.yaml", "features: [unterminated\n")

	_, err := Load(suite.loadOptions())

	var perr *outfittererrors.ParseError
	require.True(suite.T(), errors.As(err, &perr))
	assert.Equal(suite.T(), "/work/outfitter.config.yaml", perr.Path)
}

func (suite *outfitterSuite) TestLoad_UnknownExtension() {
	opts := suite.loadOptions()
	opts.SearchPaths = []string{"/work/outfitter.ini"}
	suite.write("/work/outfitter.ini", "x=1")

	_, err := Load(opts)

	assert.ErrorIs(suite.T(), err, outfittererrors.ErrUnknownFormat)
}

func (suite *outfitterSuite) TestLoad_WarningsAreLogged() {
	suite.write("/work/outfitter.config.yaml", "ignore:\n  - \"[oops\"\n")

	var buf bytes.Buffer
	opts := suite.loadOptions()
	opts.Logger = internallogging.New(zapcore.WarnLevel, &buf)
	res, err := Load(opts)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), res.Warnings, 1)
	assert.Contains(suite.T(), buf.String(), "Invalid glob pattern")
	assert.Contains(suite.T(), buf.String(), "ignore.0")
}
