package config

import "time"

const (
	DefaultInterval    = 10 * time.Second
	DefaultServerHost  = "localhost"
	DefaultServerPort  = 8095
	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisPrefix = "docsync"
	DefaultDocsDir     = "docs"
)

// GetDefaultConfig returns the configuration used when no config.yaml exists:
// disk mode over ./docs, in-memory store, status server on localhost.
func GetDefaultConfig() DocsyncConfig {
	return DocsyncConfig{
		LogLevel: "info",
		Interval: DefaultInterval,
		Source: SourceConfig{
			Mode: SourceModeDisk,
			Disk: DiskSourceConfig{
				Path:  DefaultDocsDir,
				Watch: true,
			},
			Kubernetes: KubernetesSourceConfig{
				Events: true,
			},
		},
		Store: StoreConfig{
			Type: StoreTypeMemory,
			Redis: RedisConfig{
				Addr:   DefaultRedisAddr,
				Prefix: DefaultRedisPrefix,
			},
		},
		Server: ServerConfig{
			Enabled: true,
			Host:    DefaultServerHost,
			Port:    DefaultServerPort,
		},
	}
}
