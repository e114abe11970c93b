package outfitter

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"weak"

	internalenv "github.com/leodido/outfitter/internal/env"
	"github.com/leodido/outfitter/resolve"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigOptions defines how the command line selects the configuration file.
type ConfigOptions struct {
	AppName  string           // Configuration name and environment prefix (defaults to the name of the root command)
	FlagName string           // Name of the config flag (defaults to "config")
	EnvVar   string           // Environment variable (defaults to {APPNAME}_CONFIG)
	Formats  []resolve.Format // Formats offered for completion (defaults to resolve.DefaultFormats)
}

const (
	flagConfigAnnotation = "___leodido_outfitter_configflagname"
	appNameAnnotation    = "___leodido_outfitter_appname"
)

// vipers holds one viper instance per root command.
// Entries go away once their root command is garbage collected.
var vipers = struct {
	mu sync.Mutex
	m  map[weak.Pointer[cobra.Command]]*viper.Viper
}{m: map[weak.Pointer[cobra.Command]]*viper.Viper{}}

// GetViper returns the viper instance of the command tree c belongs to.
//
// It is safe for concurrent use.
func GetViper(c *cobra.Command) *viper.Viper {
	root := c.Root()
	key := weak.Make(root)

	vipers.mu.Lock()
	defer vipers.mu.Unlock()

	v, ok := vipers.m[key]
	if !ok {
		v = viper.New()
		vipers.m[key] = v
		runtime.AddCleanup(root, forgetViper, key)
	}

	return v
}

func forgetViper(key weak.Pointer[cobra.Command]) {
	vipers.mu.Lock()
	defer vipers.mu.Unlock()

	delete(vipers.m, key)
}

// SetupConfig creates the --config persistent flag and binds it to its environment variable.
//
// Works only for the root command.
func SetupConfig(rootC *cobra.Command, cfgOpts ConfigOptions) error {
	if rootC.Parent() != nil {
		return fmt.Errorf("SetupConfig must be called on the root command")
	}

	// Determine the app name
	appName := cfgOpts.AppName
	if appName == "" {
		appName = rootC.Name()
	}
	if appName == "" {
		return fmt.Errorf("couldn't determine the app name")
	}

	// Apply defaults
	if cfgOpts.FlagName == "" {
		cfgOpts.FlagName = "config"
	}
	if cfgOpts.EnvVar == "" {
		cfgOpts.EnvVar = internalenv.Var(appName, cfgOpts.FlagName)
	} else {
		cfgOpts.EnvVar = internalenv.NormEnv(cfgOpts.EnvVar)
	}
	if len(cfgOpts.Formats) == 0 {
		cfgOpts.Formats = resolve.DefaultFormats
	}

	descr := fmt.Sprintf("config file (fallbacks to: %s)", resolve.Describe(appName, cfgOpts.Formats))
	rootC.PersistentFlags().String(cfgOpts.FlagName, "", descr)

	// Add filename completion
	extensions := []string{}
	for _, f := range cfgOpts.Formats {
		extensions = append(extensions, f.String())
	}
	if err := rootC.MarkPersistentFlagFilename(cfgOpts.FlagName, extensions...); err != nil {
		return fmt.Errorf("couldn't set filename completion: %w", err)
	}

	v := GetViper(rootC)
	if err := v.BindPFlag(cfgOpts.FlagName, rootC.PersistentFlags().Lookup(cfgOpts.FlagName)); err != nil {
		return fmt.Errorf("couldn't bind the %s flag: %w", cfgOpts.FlagName, err)
	}
	if err := v.BindEnv(cfgOpts.FlagName, cfgOpts.EnvVar); err != nil {
		return fmt.Errorf("couldn't bind %s: %w", cfgOpts.EnvVar, err)
	}

	if rootC.Annotations == nil {
		rootC.Annotations = make(map[string]string)
	}
	rootC.Annotations[flagConfigAnnotation] = cfgOpts.FlagName
	rootC.Annotations[appNameAnnotation] = appName

	return nil
}

// ConfigFile returns the configuration file explicitly given through the config flag or its environment variable.
//
// The flag wins over the environment variable.
func ConfigFile(c *cobra.Command) string {
	flagName, ok := c.Root().Annotations[flagConfigAnnotation]
	if !ok {
		return ""
	}

	return strings.TrimSpace(GetViper(c).GetString(flagName))
}

// UseConfig loads the configuration for the command c.
//
// An explicit configuration file replaces the search and must exist.
// Otherwise the highest-precedence file found is used, falling back to the defaults.
func UseConfig(c *cobra.Command, opts LoadOptions) (*LoadResult, error) {
	if opts.Name == "" {
		opts.Name = c.Root().Annotations[appNameAnnotation]
	}
	if file := ConfigFile(c); file != "" {
		opts.SearchPaths = []string{file}
		opts.Required = true
	}

	return Load(opts)
}
