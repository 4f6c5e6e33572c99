// Package config loads docsync's config.yaml.
//
// The file lives in a configuration directory, ~/.config/docsync unless
// --config-path says otherwise. Values are read on top of GetDefaultConfig, so
// an empty or missing file is valid and runs disk mode over ./docs with the
// in-memory store.
//
//	logLevel: info
//	interval: 10s
//	source:
//	  mode: static
//	  routes:
//	    - name: petstore
//	      kind: http
//	      url: https://petstore3.swagger.io/api/v3/openapi.json
//	store:
//	  type: redis
//	  redis:
//	    addr: localhost:6379
//	server:
//	  enabled: true
//	  port: 8095
//
// Loading and validation failures are returned as ConfigurationError or
// ConfigurationErrorCollection, carrying the section and suggestions for a fix.
package config
