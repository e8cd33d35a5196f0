// Package cmdhelper collects the small pieces of boilerplate shared by
// the nanofsctl and nanofuse command trees: fatal-error reporting,
// home-directory expansion, and config file loading.
package cmdhelper

import (
	"fmt"
	"os"
	"strings"

	"github.com/nanofs/nanofs/api"
	"github.com/nanofs/nanofs/internal/logging"
)

func FatalFmt(format string, args ...any) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func SubstituteHome(p string) string {
	if len(p) == 0 || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return home + p[1:]
}

// LoadConfig resolves a HostConfig by layering, lowest precedence
// first: DefaultConfig, the YAML file named by NANOFS_CONFIG_FILE (or
// .nanofs.yaml in the user's home directory if unset), NANOFS_LOG_LEVEL,
// then flagOverlay - typically built by a command from its own flags,
// leaving fields the user didn't set at their zero value so they don't
// clobber the file or the environment.
func LoadConfig(flagOverlay api.HostConfig) (api.HostConfig, error) {
	configPath := os.Getenv(api.ConfigFileEnv)
	if configPath == "" {
		configPath = SubstituteHome("~/.nanofs.yaml")
	}

	config, err := api.ReadConfig(api.FileConfigReader{Path: configPath}, api.DefaultConfig())
	if err != nil {
		return api.HostConfig{}, fmt.Errorf("reading config from %s: %w", configPath, err)
	}

	if level, ok := os.LookupEnv(api.LogLevelEnv); ok {
		config = mergeOverlay(config, api.HostConfig{LogLevel: level})
	}
	config = mergeOverlay(config, flagOverlay)

	logging.SetLevel(logging.FromString(config.LogLevel))
	return config, config.Validate()
}

// mergeOverlay applies every non-zero field of overlay onto base.
func mergeOverlay(base, overlay api.HostConfig) api.HostConfig {
	merged := base
	if overlay.Image != "" {
		merged.Image = overlay.Image
	}
	if overlay.BlockSize != 0 {
		merged.BlockSize = overlay.BlockSize
	}
	if overlay.FUSEDebug != nil {
		merged.FUSEDebug = overlay.FUSEDebug
	}
	if overlay.MetricsAddr != "" {
		merged.MetricsAddr = overlay.MetricsAddr
	}
	if overlay.LogLevel != "" {
		merged.LogLevel = overlay.LogLevel
	}
	return merged
}
