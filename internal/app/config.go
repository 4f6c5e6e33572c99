package app

import (
	"docsync/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the configured level.
	Debug bool

	// ConfigPath is the directory holding config.yaml. Empty means
	// ~/.config/docsync.
	ConfigPath string

	// DocsyncConfig is filled in by NewApplication.
	DocsyncConfig *config.DocsyncConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}
