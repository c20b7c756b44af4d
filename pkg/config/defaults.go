package config

import (
	"os"
	"runtime"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/chocoforge/choco/pkg/logging"
)

var log = logging.GetLogger("config")

// fileConfig is the subset of settings loadable from config.toml under the
// install root. Everything else comes from the command line.
type fileConfig struct {
	CacheLocation                  string   `toml:"cacheLocation"`
	CommandExecutionTimeoutSeconds int      `toml:"commandExecutionTimeoutSeconds"`
	DefaultSources                 string   `toml:"sources"`
	Features                       Features `toml:"features"`
}

// Default returns a Configuration with the stock feature set for this
// platform.
func Default() *Configuration {
	return &Configuration{
		PromptForConfirmation:          true,
		RegularOutput:                  true,
		CommandExecutionTimeoutSeconds: 2700,
		Information: PlatformInformation{
			PlatformType:           runtime.GOOS,
			Is64BitOperatingSystem: runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64",
		},
		Features: Features{
			ChecksumFiles:              true,
			AutoUninstaller:            true,
			UsePackageExitCodes:        true,
			UsePowerShellHost:          true,
			UseRepositoryOptimizations: true,
		},
	}
}

// Load builds the default configuration and overlays config.toml from
// configPath if it exists. A missing file is not an error; a malformed one
// is logged and ignored so a broken config never blocks uninstalls.
func Load(configPath string) *Configuration {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", configPath).Msg("Cannot read config file")
		}
		return cfg
	}

	// Seed with current values so keys absent from the file keep their
	// defaults after unmarshalling.
	fc := fileConfig{
		CacheLocation:                  cfg.CacheLocation,
		CommandExecutionTimeoutSeconds: cfg.CommandExecutionTimeoutSeconds,
		Features:                       cfg.Features,
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("Malformed config file ignored")
		return cfg
	}

	if fc.CacheLocation != "" {
		cfg.CacheLocation = fc.CacheLocation
	}
	if fc.CommandExecutionTimeoutSeconds > 0 {
		cfg.CommandExecutionTimeoutSeconds = fc.CommandExecutionTimeoutSeconds
	}
	if fc.DefaultSources != "" {
		cfg.Sources = fc.DefaultSources
	}
	cfg.Features = fc.Features

	log.Debug().Str("path", configPath).Msg("Loaded configuration file")
	return cfg
}
