package api

import (
	"errors"
	"strings"
)

// HostConfig is the configuration of the nanofuse host tool (nanofsctl
// uses its own flags instead). It can be read from a YAML file or passed as
// command-line flags; flags win over the file, which wins over
// DefaultConfig. blockfs itself knows nothing of this type - it takes
// a blockfs.Config built from these fields.
type HostConfig struct {
	// Image is the path to the backing image file.
	Image string `yaml:"image,omitempty"`
	// BlockSize is the on-disk block size in bytes. Only 256 is
	// currently supported by the codec; the field exists so a future
	// block size can be threaded through config without an API break.
	BlockSize uint32 `yaml:"block_size,omitempty"`
	// FUSEDebug emits go-fuse's own request trace to stderr.
	FUSEDebug *bool `yaml:"fuse_debug,omitempty"`
	// MetricsAddr is the listen address for the Prometheus /metrics
	// endpoint. Empty disables metrics serving.
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
	// LogLevel is one of "error", "warning", "basic", "debug".
	LogLevel string `yaml:"log_level,omitempty"`
}

func (c HostConfig) Validate() error {
	issues := []string{}
	if c.Image == "" {
		issues = append(issues, `image must be provided`)
	}
	if c.BlockSize != 0 && c.BlockSize != 256 {
		issues = append(issues, `block_size must be 256`)
	}
	switch c.LogLevel {
	case "", "error", "warning", "basic", "debug": // allowed
	default:
		issues = append(issues, `log_level must be one of "error", "warning", "basic", "debug"`)
	}
	if len(issues) > 0 {
		return errors.New("config validation failed: \n  " + strings.Join(issues, "\n  "))
	}
	return nil
}

func (c HostConfig) FUSEDebugEnable() bool {
	return c.FUSEDebug != nil && *c.FUSEDebug
}

// ConfigReader reads and merges a HostConfig on top of a base
// configuration, e.g. from a YAML file on disk.
type ConfigReader interface {
	Read(baseConfig HostConfig) (HostConfig, error)
}

func ReadConfig(reader ConfigReader, config HostConfig) (HostConfig, error) {
	return reader.Read(config)
}

func DefaultConfig() HostConfig {
	return HostConfig{
		Image:       "nanofs.img",
		BlockSize:   256,
		FUSEDebug:   nil,
		MetricsAddr: "",
		LogLevel:    "basic",
	}
}
