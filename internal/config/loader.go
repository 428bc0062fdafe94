package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is looked up in the current directory.
	DefaultConfigFile = ".logpuzzle.yaml"

	// XDGConfigFile is looked up in the XDG configuration directory.
	XDGConfigFile = "config.yaml"
)

// File is the YAML configuration file. Unset fields keep their defaults.
//
//	base_url: http://code.google.com
//	timeout: 1m
//	keep_going: true
type File struct {
	BaseURL   string         `yaml:"base_url"`
	Timeout   *time.Duration `yaml:"timeout"`
	UserAgent string         `yaml:"user_agent"`
	KeepGoing *bool          `yaml:"keep_going"`
	Quiet     *bool          `yaml:"quiet"`
	Format    string         `yaml:"format"`
	TempDir   string         `yaml:"temp_dir"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .logpuzzle.yaml in the current directory
// 3. Look for config.yaml in the XDG configuration directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), XDGConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}
	return ""
}
