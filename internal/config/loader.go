package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"docsync/pkg/logging"
)

const (
	userConfigDir  = ".config/docsync"
	configFileName = "config.yaml"
)

// GetDefaultConfigPathOrPanic returns ~/.config/docsync.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads config.yaml from configPath on top of the defaults and
// validates the result. A missing file yields the defaults. Relative disk
// paths are resolved against configPath.
func LoadConfig(configPath string) (DocsyncConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "Error loading config.yaml from %s: %s", configFilePath, err)
			return DocsyncConfig{}, NewConfigurationError(configFilePath, configFileName, "", "io", err.Error())
		}
		logging.Info("Config", "No config.yaml found at %s, using defaults", configFilePath)
	} else {
		if err := yaml.Unmarshal(data, &config); err != nil {
			cerr := NewConfigurationError(configFilePath, configFileName, "", "parse", "malformed YAML")
			cerr.Details = err.Error()
			return DocsyncConfig{}, cerr
		}
		logging.Info("Config", "Loaded configuration from %s", configFilePath)
	}

	if config.Source.Mode == SourceModeDisk && config.Source.Disk.Path != "" && !filepath.IsAbs(config.Source.Disk.Path) {
		config.Source.Disk.Path = filepath.Join(configPath, config.Source.Disk.Path)
	}

	if errs := Validate(config, configFilePath); errs.HasErrors() {
		return DocsyncConfig{}, errs
	}
	return config, nil
}
