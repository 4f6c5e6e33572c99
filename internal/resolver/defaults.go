package resolver

import (
	"fmt"
	"net/http"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/client"

	"docsync/internal/api"
)

// Dependencies are the shared handles the built-in resolvers need.
type Dependencies struct {
	// BaseDir resolves relative disk paths.
	BaseDir string

	// HTTPClient is the base client for remote fetches. Optional.
	HTTPClient *http.Client

	// HTTPTimeout is the per-request default for remote fetches.
	HTTPTimeout time.Duration

	// KubeClient reads ConfigMaps. When nil, NewKubeClient is called the
	// first time a configmap route is seen.
	KubeClient    client.Reader
	NewKubeClient func() (client.Reader, error)

	// Namespace applies to configmap references without one.
	Namespace string
}

// DefaultRegistry registers the disk, http and configmap resolvers.
func DefaultRegistry(deps Dependencies) *Registry {
	r := NewRegistry()

	mustRegister(r, api.ResolverKindDisk, func() (api.DocumentResolver, error) {
		return NewDiskResolver(deps.BaseDir), nil
	})

	mustRegister(r, api.ResolverKindHTTP, func() (api.DocumentResolver, error) {
		var opts []HTTPOption
		if deps.HTTPClient != nil {
			opts = append(opts, WithHTTPClient(deps.HTTPClient))
		}
		if deps.HTTPTimeout > 0 {
			opts = append(opts, WithDefaultTimeout(deps.HTTPTimeout))
		}
		return NewHTTPResolver(opts...), nil
	})

	mustRegister(r, api.ResolverKindConfigMap, func() (api.DocumentResolver, error) {
		reader := deps.KubeClient
		if reader == nil {
			if deps.NewKubeClient == nil {
				return nil, fmt.Errorf("no Kubernetes client configured")
			}
			var err error
			reader, err = deps.NewKubeClient()
			if err != nil {
				return nil, err
			}
		}
		return NewConfigMapResolver(reader, deps.Namespace), nil
	})

	return r
}

func mustRegister(r *Registry, kind api.ResolverKind, f api.ResolverFactory) {
	if err := r.Register(kind, f); err != nil {
		panic(err)
	}
}
