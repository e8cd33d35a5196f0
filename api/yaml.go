package api

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfigReader reads a HostConfig from a YAML file at Path. A
// missing file is not an error: it simply leaves baseConfig
// untouched, so callers can point ConfigFileEnv at an optional file.
type FileConfigReader struct {
	Path string
}

func (r FileConfigReader) Read(baseConfig HostConfig) (HostConfig, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return baseConfig, nil
		}
		return baseConfig, err
	}
	if err := yaml.Unmarshal(data, &baseConfig); err != nil {
		return baseConfig, err
	}
	return baseConfig, nil
}
