package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"docsync/internal/api"
	"docsync/internal/document"
)

// ConfigMapResolver reads documents stored in ConfigMap keys.
//
// route.URL is "namespace/name" (or just "name" for the default namespace),
// route.Path selects the data key. Without a key the first key in sorted
// order holding a document extension is used, then the first key at all.
type ConfigMapResolver struct {
	client           client.Reader
	defaultNamespace string
}

// NewConfigMapResolver creates a resolver reading through c.
func NewConfigMapResolver(c client.Reader, defaultNamespace string) *ConfigMapResolver {
	if defaultNamespace == "" {
		defaultNamespace = "default"
	}
	return &ConfigMapResolver{client: c, defaultNamespace: defaultNamespace}
}

// Fetch loads the ConfigMap and returns the selected key as a document.
func (r *ConfigMapResolver) Fetch(ctx context.Context, route api.RouteDescriptor) (*api.ServiceDocument, error) {
	key, err := r.objectKey(route.URL)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", route.Name, err)
	}

	if route.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, route.Timeout)
		defer cancel()
	}

	var cm corev1.ConfigMap
	if err := r.client.Get(ctx, key, &cm); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("configmap %s not found", key)
		}
		return nil, fmt.Errorf("failed to get configmap %s: %w", key, err)
	}

	dataKey := route.Path
	if dataKey == "" {
		dataKey = pickDataKey(&cm)
		if dataKey == "" {
			return nil, nil
		}
	}

	var payload []byte
	if v, ok := cm.Data[dataKey]; ok {
		payload = []byte(v)
	} else if v, ok := cm.BinaryData[dataKey]; ok {
		payload = v
	} else {
		return nil, fmt.Errorf("configmap %s has no key %q", key, dataKey)
	}

	if len(strings.TrimSpace(string(payload))) == 0 {
		return nil, nil
	}

	source := fmt.Sprintf("configmap://%s/%s#%s", key.Namespace, key.Name, dataKey)
	doc, err := document.Build(route, payload, source, "")
	if err != nil {
		return nil, fmt.Errorf("invalid document in %s: %w", source, err)
	}
	return doc, nil
}

func (r *ConfigMapResolver) objectKey(ref string) (types.NamespacedName, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return types.NamespacedName{}, fmt.Errorf("configmap reference is empty")
	}

	parts := strings.Split(ref, "/")
	switch len(parts) {
	case 1:
		return types.NamespacedName{Namespace: r.defaultNamespace, Name: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return types.NamespacedName{}, fmt.Errorf("invalid configmap reference %q", ref)
		}
		return types.NamespacedName{Namespace: parts[0], Name: parts[1]}, nil
	default:
		return types.NamespacedName{}, fmt.Errorf("invalid configmap reference %q", ref)
	}
}

func pickDataKey(cm *corev1.ConfigMap) string {
	keys := make([]string, 0, len(cm.Data)+len(cm.BinaryData))
	for k := range cm.Data {
		keys = append(keys, k)
	}
	for k := range cm.BinaryData {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	for _, k := range keys {
		if IsDocumentFile(k) {
			return k
		}
	}
	return keys[0]
}
