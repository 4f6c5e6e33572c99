package config

import (
	"time"

	"docsync/internal/api"
)

// DocsyncConfig is the top-level configuration structure for docsync.
type DocsyncConfig struct {
	LogLevel string        `yaml:"logLevel,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"` // Sleep between reconcile ticks (default: 10s)
	Source   SourceConfig  `yaml:"source"`
	Store    StoreConfig   `yaml:"store"`
	Server   ServerConfig  `yaml:"server"`
}

// SourceMode selects where routes come from.
type SourceMode string

const (
	SourceModeDisk       SourceMode = "disk"
	SourceModeStatic     SourceMode = "static"
	SourceModeKubernetes SourceMode = "kubernetes"
)

// SourceConfig configures the configuration source.
type SourceConfig struct {
	Mode       SourceMode             `yaml:"mode"`
	Disk       DiskSourceConfig       `yaml:"disk,omitempty"`
	Kubernetes KubernetesSourceConfig `yaml:"kubernetes,omitempty"`

	// Routes are served as-is in static mode.
	Routes []api.RouteDescriptor `yaml:"routes,omitempty"`
}

// DiskSourceConfig configures disk mode.
type DiskSourceConfig struct {
	Path  string `yaml:"path,omitempty"`  // One subdirectory per service
	Watch bool   `yaml:"watch,omitempty"` // Wake the loop on file changes
}

// KubernetesSourceConfig configures kubernetes mode.
type KubernetesSourceConfig struct {
	Namespace string `yaml:"namespace,omitempty"` // Empty watches all namespaces
	Events    bool   `yaml:"events,omitempty"`    // Record Kubernetes Events on DocumentRoutes
}

// StoreType selects the session store backend.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// StoreConfig configures the session store.
type StoreConfig struct {
	Type  StoreType   `yaml:"type"`
	Redis RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// ServerConfig configures the status endpoint.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host,omitempty"` // Host to bind to (default: localhost)
	Port    int    `yaml:"port,omitempty"` // Port to listen on (default: 8095)
}
