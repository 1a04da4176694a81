// Package config loads the matrix configuration from pulsar-build.yaml. The
// dependency versions themselves are pinned in code; the config only selects
// which matrix entries to build and where artifacts land.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/zbentley/pulsar/pkg/global"
	"github.com/zbentley/pulsar/pkg/target"
)

type Config struct {
	PythonVersions []string `json:"python_versions,omitempty" yaml:"python_versions"`
	Architectures  []string `json:"architectures,omitempty" yaml:"architectures"`
	ContextDir     string   `json:"context_dir,omitempty" yaml:"context_dir"`
	OutputDir      string   `json:"output_dir,omitempty" yaml:"output_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		PythonVersions: []string{"3.7.16", "3.8.16", "3.10.10"},
		Architectures:  target.SupportedArchitectures,
		ContextDir:     ".",
		OutputDir:      filepath.Join("pulsar-client-cpp", "python", "wheelhouse"),
	}
}

func FromYAML(contents []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", global.ConfigFilename, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// GetConfig loads the config file from projectDir, falling back to defaults
// when no file exists.
func GetConfig(projectDir string) (*Config, error) {
	configPath := filepath.Join(projectDir, global.ConfigFilename)
	contents, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}
	return FromYAML(contents)
}

func (c *Config) Validate() error {
	if len(c.PythonVersions) == 0 {
		return fmt.Errorf("python_versions must list at least one version")
	}
	if len(c.Architectures) == 0 {
		return fmt.Errorf("architectures must list at least one architecture")
	}
	return nil
}
