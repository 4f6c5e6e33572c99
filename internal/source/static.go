package source

import (
	"context"

	"docsync/internal/api"
)

// StaticSource serves a fixed list of routes, typically from config.yaml.
type StaticSource struct {
	routes []api.RouteDescriptor
}

// NewStaticSource creates a source that always returns routes.
func NewStaticSource(routes []api.RouteDescriptor) *StaticSource {
	return &StaticSource{routes: cloneRoutes(routes)}
}

// Routes returns a copy of the configured routes.
func (s *StaticSource) Routes(ctx context.Context) ([]api.RouteDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneRoutes(s.routes), nil
}

func (s *StaticSource) Name() string {
	return "static"
}

func cloneRoutes(in []api.RouteDescriptor) []api.RouteDescriptor {
	out := make([]api.RouteDescriptor, len(in))
	copy(out, in)
	return out
}
