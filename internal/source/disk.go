package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"docsync/internal/api"
	"docsync/internal/resolver"
	"docsync/pkg/logging"
)

// routeOverrides is the content of a route.yaml file.
type routeOverrides struct {
	ContextPath string            `yaml:"contextPath"`
	Labels      map[string]string `yaml:"labels"`
	Document    string            `yaml:"document"`
}

// DiskSource derives one route per service from a directory tree.
//
// Each non-hidden subdirectory of root is a service: its name becomes the
// route name and default context path, and the disk resolver reads the first
// document file in it. A route.yaml inside the subdirectory may set
// contextPath, labels or an explicit document file. Document files placed
// directly in root are services too, named after the file without extension.
// When a file and a directory share a name, the first entry in directory
// order defines the route.
type DiskSource struct {
	root string
}

// NewDiskSource creates a source rooted at root.
func NewDiskSource(root string) *DiskSource {
	return &DiskSource{root: root}
}

// Root returns the watched directory.
func (s *DiskSource) Root() string {
	return s.root
}

func (s *DiskSource) Name() string {
	return "disk:" + s.root
}

// Routes scans root and returns the routes sorted by name.
func (s *DiskSource) Routes(ctx context.Context) ([]api.RouteDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.root, err)
	}

	routes := make([]api.RouteDescriptor, 0, len(entries))
	seen := make(map[string]string)

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		var route api.RouteDescriptor
		switch {
		case e.IsDir():
			route, err = s.directoryRoute(name)
			if err != nil {
				logging.Warn("DiskSource", "Skipping %s: %v", name, err)
				continue
			}
		case resolver.IsDocumentFile(name) && name != resolver.RouteFileName:
			route = api.RouteDescriptor{
				Name: strings.TrimSuffix(name, filepath.Ext(name)),
				Kind: api.ResolverKindDisk,
				Path: filepath.Join(s.root, name),
			}
		default:
			continue
		}

		if other, dup := seen[route.Name]; dup {
			logging.Warn("DiskSource", "Ignoring %s: route %s is already defined by %s", name, route.Name, other)
			continue
		}
		seen[route.Name] = name
		routes = append(routes, route)
	}

	sort.SliceStable(routes, func(i, j int) bool { return routes[i].Name < routes[j].Name })
	return routes, nil
}

func (s *DiskSource) directoryRoute(dir string) (api.RouteDescriptor, error) {
	path := filepath.Join(s.root, dir)
	route := api.RouteDescriptor{
		Name: dir,
		Kind: api.ResolverKindDisk,
		Path: path,
	}

	data, err := os.ReadFile(filepath.Join(path, resolver.RouteFileName))
	if errors.Is(err, os.ErrNotExist) {
		return route, nil
	}
	if err != nil {
		return route, err
	}

	var overrides routeOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return route, fmt.Errorf("invalid %s: %w", resolver.RouteFileName, err)
	}

	route.ContextPath = overrides.ContextPath
	route.Labels = overrides.Labels
	if overrides.Document != "" {
		if filepath.IsAbs(overrides.Document) || strings.Contains(overrides.Document, "..") {
			return route, fmt.Errorf("document %q must be a file inside %s", overrides.Document, path)
		}
		route.Path = filepath.Join(path, overrides.Document)
	}
	return route, nil
}
