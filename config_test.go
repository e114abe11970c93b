package outfitter

import (
	"sync"

	outfittererrors "github.com/leodido/outfitter/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *outfitterSuite) rootC(run func(c *cobra.Command)) *cobra.Command {
	return &cobra.Command{
		Use: "outfitter",
		RunE: func(c *cobra.Command, _ []string) error {
			run(c)

			return nil
		},
	}
}

func (suite *outfitterSuite) TestGetViper_PerRootAndConcurrent() {
	root := &cobra.Command{Use: "outfitter"}
	child := &cobra.Command{Use: "show"}
	root.AddCommand(child)
	other := &cobra.Command{Use: "outfitter"}

	want := GetViper(root)
	got := make(chan any, 16)
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				got <- GetViper(child)
			} else {
				got <- GetViper(root)
			}
		}()
	}
	wg.Wait()
	close(got)

	for v := range got {
		assert.Same(suite.T(), want, v)
	}
	assert.NotSame(suite.T(), want, GetViper(other))
}

func (suite *outfitterSuite) TestSetupConfig_RootOnly() {
	root := &cobra.Command{Use: "outfitter"}
	child := &cobra.Command{Use: "show"}
	root.AddCommand(child)

	err := SetupConfig(child, ConfigOptions{})

	assert.EqualError(suite.T(), err, "SetupConfig must be called on the root command")
}

func (suite *outfitterSuite) TestSetupConfig_Flag() {
	root := &cobra.Command{Use: "outfitter"}
	require.NoError(suite.T(), SetupConfig(root, ConfigOptions{}))

	f := root.PersistentFlags().Lookup("config")
	require.NotNil(suite.T(), f)
	assert.Contains(suite.T(), f.Usage, "$XDG_CONFIG_HOME/outfitter/config")
	assert.Contains(suite.T(), f.Usage, ".{toml,jsonc,yaml}")
	assert.Equal(suite.T(), "config", root.Annotations[flagConfigAnnotation])
	assert.Equal(suite.T(), "outfitter", root.Annotations[appNameAnnotation])

	custom := &cobra.Command{Use: "tool"}
	require.NoError(suite.T(), SetupConfig(custom, ConfigOptions{AppName: "outfitter", FlagName: "settings"}))
	assert.NotNil(suite.T(), custom.PersistentFlags().Lookup("settings"))
}

func (suite *outfitterSuite) TestUseConfig_FlagWinsOverEnv() {
	suite.T().Setenv("OUTFITTER_CONFIG", "/env/outfitter.toml")
	suite.write("/env/outfitter.toml", "presets = [\"env\"]\n")
	suite.write("/flag/outfitter.yaml", "presets: [flag]\n")

	var res *LoadResult
	var err error
	root := suite.rootC(func(c *cobra.Command) {
		opts := suite.loadOptions()
		opts.Name = ""
		res, err = UseConfig(c, opts)
	})
	require.NoError(suite.T(), SetupConfig(root, ConfigOptions{}))
	root.SetArgs([]string{"--config", "/flag/outfitter.yaml"})
	require.NoError(suite.T(), root.Execute())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/flag/outfitter.yaml", res.Source)
	assert.Equal(suite.T(), []string{"flag"}, res.Config.Presets)
}

func (suite *outfitterSuite) TestUseConfig_EnvVar() {
	suite.T().Setenv("OUTFITTER_CONFIG", " /env/outfitter.toml ")
	suite.write("/env/outfitter.toml", "presets = [\"env\"]\n")

	var res *LoadResult
	var err error
	root := suite.rootC(func(c *cobra.Command) {
		res, err = UseConfig(c, suite.loadOptions())
	})
	require.NoError(suite.T(), SetupConfig(root, ConfigOptions{}))
	root.SetArgs([]string{})
	require.NoError(suite.T(), root.Execute())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/env/outfitter.toml", res.Source)
	assert.Equal(suite.T(), []string{"env"}, res.Config.Presets)
}

func (suite *outfitterSuite) TestUseConfig_ExplicitFileMustExist() {
	var err error
	root := suite.rootC(func(c *cobra.Command) {
		_, err = UseConfig(c, suite.loadOptions())
	})
	require.NoError(suite.T(), SetupConfig(root, ConfigOptions{}))
	root.SetArgs([]string{"--config", "/nope.toml"})
	require.NoError(suite.T(), root.Execute())

	assert.ErrorIs(suite.T(), err, outfittererrors.ErrFileNotFound)
}

func (suite *outfitterSuite) TestUseConfig_Search() {
	suite.write("/work/outfitter.config.toml", "[features]\npackages = true\n")

	var res *LoadResult
	var err error
	root := suite.rootC(func(c *cobra.Command) {
		res, err = UseConfig(c, suite.loadOptions())
	})
	require.NoError(suite.T(), SetupConfig(root, ConfigOptions{}))
	root.SetArgs([]string{})
	require.NoError(suite.T(), root.Execute())

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "/work/outfitter.config.toml", res.Source)
	assert.True(suite.T(), res.Config.Features.Packages)
	assert.Empty(suite.T(), ConfigFile(root))
}
