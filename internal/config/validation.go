package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"docsync/internal/api"
)

// Validate checks cfg and returns every problem found. filePath is only used
// to label the errors.
func Validate(cfg DocsyncConfig, filePath string) *ConfigurationErrorCollection {
	errs := NewConfigurationErrorCollection()
	fileName := filepath.Base(filePath)

	add := func(category, message string, suggestions ...string) {
		e := NewConfigurationError(filePath, fileName, category, "validation", message)
		e.Suggestions = suggestions
		errs.Add(e)
	}

	if cfg.Interval <= 0 {
		add("interval", fmt.Sprintf("interval must be positive, got %v", cfg.Interval),
			"use a duration such as 10s or 1m")
	}

	switch cfg.Source.Mode {
	case SourceModeDisk:
		if strings.TrimSpace(cfg.Source.Disk.Path) == "" {
			add("source", "source.disk.path is required in disk mode")
		}
	case SourceModeStatic:
		validateRoutes(cfg.Source.Routes, add)
	case SourceModeKubernetes:
	default:
		add("source", fmt.Sprintf("unknown source mode %q", cfg.Source.Mode),
			"valid modes are disk, static and kubernetes")
	}

	switch cfg.Store.Type {
	case StoreTypeMemory:
	case StoreTypeRedis:
		if strings.TrimSpace(cfg.Store.Redis.Addr) == "" {
			add("store", "store.redis.addr is required for the redis store")
		}
		if cfg.Store.Redis.DB < 0 {
			add("store", "store.redis.db must not be negative")
		}
	default:
		add("store", fmt.Sprintf("unknown store type %q", cfg.Store.Type),
			"valid types are memory and redis")
	}

	if cfg.Server.Enabled && (cfg.Server.Port <= 0 || cfg.Server.Port > 65535) {
		add("server", fmt.Sprintf("server.port %d is out of range", cfg.Server.Port))
	}

	return errs
}

func validateRoutes(routes []api.RouteDescriptor, add func(category, message string, suggestions ...string)) {
	names := make(map[string]bool, len(routes))
	for i, r := range routes {
		label := fmt.Sprintf("source.routes[%d]", i)
		if r.Name != "" {
			label = fmt.Sprintf("route %q", r.Name)
		}

		if strings.TrimSpace(r.Name) == "" {
			add("source", label+": name is required")
		} else if names[r.Name] {
			add("source", label+": duplicate route name")
		}
		names[r.Name] = true

		if !api.ValidResolverKinds[r.Kind] {
			add("source", fmt.Sprintf("%s: unknown kind %q", label, r.Kind),
				"valid kinds are disk, http and configmap")
			continue
		}

		switch r.Kind {
		case api.ResolverKindHTTP:
			if r.URL == "" {
				add("source", label+": url is required for http routes")
			}
			if r.OAuth2 != nil && (r.OAuth2.TokenURL == "" || r.OAuth2.ClientID == "") {
				add("source", label+": oauth2 requires tokenURL and clientID")
			}
		case api.ResolverKindDisk:
			if r.Path == "" {
				add("source", label+": path is required for disk routes")
			}
		case api.ResolverKindConfigMap:
			if r.URL == "" {
				add("source", label+": url must name the ConfigMap as namespace/name")
			}
		}

		if r.Timeout < 0 {
			add("source", label+": timeout must not be negative")
		}
	}
}
