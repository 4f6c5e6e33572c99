package source

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"docsync/internal/api"
	docsyncv1alpha1 "docsync/pkg/apis/docsync/v1alpha1"
	"docsync/pkg/logging"
)

// KubernetesSource lists DocumentRoute resources.
//
// Suspended routes are skipped. Routes whose OAuth2 client secret cannot be
// read are skipped too and logged; a failed List fails the whole call.
type KubernetesSource struct {
	client    client.Reader
	namespace string
}

// NewKubernetesSource creates a source reading from namespace ("" = all).
func NewKubernetesSource(c client.Reader, namespace string) *KubernetesSource {
	return &KubernetesSource{client: c, namespace: namespace}
}

func (s *KubernetesSource) Name() string {
	if s.namespace == "" {
		return "kubernetes"
	}
	return "kubernetes:" + s.namespace
}

// Routes returns one route per active DocumentRoute, sorted by namespace and name.
func (s *KubernetesSource) Routes(ctx context.Context) ([]api.RouteDescriptor, error) {
	var list docsyncv1alpha1.DocumentRouteList
	var opts []client.ListOption
	if s.namespace != "" {
		opts = append(opts, client.InNamespace(s.namespace))
	}
	if err := s.client.List(ctx, &list, opts...); err != nil {
		return nil, fmt.Errorf("failed to list DocumentRoutes: %w", err)
	}

	items := list.Items
	sort.Slice(items, func(i, j int) bool {
		if items[i].Namespace != items[j].Namespace {
			return items[i].Namespace < items[j].Namespace
		}
		return items[i].Name < items[j].Name
	})

	routes := make([]api.RouteDescriptor, 0, len(items))
	for i := range items {
		dr := &items[i]
		if dr.Spec.Suspend {
			logging.Debug("KubernetesSource", "Skipping suspended route %s/%s", dr.Namespace, dr.Name)
			continue
		}
		route, err := s.convert(ctx, dr)
		if err != nil {
			logging.Warn("KubernetesSource", "Skipping route %s/%s: %v", dr.Namespace, dr.Name, err)
			continue
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func (s *KubernetesSource) convert(ctx context.Context, dr *docsyncv1alpha1.DocumentRoute) (api.RouteDescriptor, error) {
	kind := api.ResolverKind(dr.Spec.Resolver)

	route := api.RouteDescriptor{
		Name:        dr.Name,
		Namespace:   dr.Namespace,
		Kind:        kind,
		URL:         dr.Spec.URL,
		Path:        dr.Spec.Path,
		ContextPath: dr.Spec.ContextPath,
		Headers:     dr.Spec.Headers,
		Labels:      dr.Labels,
	}
	// Route names are only unique per namespace.
	if route.ContextPath == "" {
		route.ContextPath = "/" + dr.Namespace + "/" + dr.Name
	}
	if dr.Spec.TimeoutSeconds > 0 {
		route.Timeout = time.Duration(dr.Spec.TimeoutSeconds) * time.Second
	}

	// ConfigMap references without a namespace stay in the route's namespace.
	if kind == api.ResolverKindConfigMap && route.URL != "" && !strings.Contains(route.URL, "/") {
		route.URL = dr.Namespace + "/" + route.URL
	}

	if o := dr.Spec.OAuth2; o != nil {
		creds := &api.OAuth2Credentials{
			TokenURL: o.TokenURL,
			ClientID: o.ClientID,
			Scopes:   o.Scopes,
		}
		if o.ClientSecretRef != nil {
			secret, err := s.secretValue(ctx, dr.Namespace, o.ClientSecretRef)
			if err != nil {
				return route, err
			}
			creds.ClientSecret = secret
		}
		route.OAuth2 = creds
	}
	return route, nil
}

func (s *KubernetesSource) secretValue(ctx context.Context, namespace string, ref *corev1.SecretKeySelector) (string, error) {
	var secret corev1.Secret
	key := types.NamespacedName{Namespace: namespace, Name: ref.Name}
	if err := s.client.Get(ctx, key, &secret); err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", key, err)
	}
	v, ok := secret.Data[ref.Key]
	if !ok {
		return "", fmt.Errorf("secret %s has no key %q", key, ref.Key)
	}
	return string(v), nil
}
