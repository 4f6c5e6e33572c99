package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"docsync/internal/api"
)

func newFakeReader(t *testing.T, objs ...client.Object) client.Reader {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))
	return fake.NewClientBuilder().WithScheme(scheme).WithObjects(objs...).Build()
}

func TestConfigMapResolver_Fetch(t *testing.T) {
	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "orders-api", Namespace: "shop"},
		Data: map[string]string{
			"README":       "not a document",
			"openapi.yaml": "openapi: 3.0.3\ninfo:\n  title: Orders\n  version: 2.0.0\npaths: {}\n",
			"v1.json":      petstore,
		},
		BinaryData: map[string][]byte{
			"legacy.json": []byte(`{"swagger":"2.0","info":{"title":"Legacy","version":"1"},"paths":{}}`),
		},
	}
	empty := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "empty", Namespace: "default"}}

	r := NewConfigMapResolver(newFakeReader(t, cm, empty), "")

	tests := []struct {
		name      string
		route     api.RouteDescriptor
		wantTitle string
		wantNil   bool
		wantErr   string
	}{
		{
			name:      "explicit key",
			route:     api.RouteDescriptor{Name: "orders", URL: "shop/orders-api", Path: "v1.json"},
			wantTitle: "Petstore",
		},
		{
			name:      "binary key",
			route:     api.RouteDescriptor{Name: "orders", URL: "shop/orders-api", Path: "legacy.json"},
			wantTitle: "Legacy",
		},
		{
			name:      "first document key",
			route:     api.RouteDescriptor{Name: "orders", URL: "shop/orders-api"},
			wantTitle: "Legacy",
		},
		{
			name:    "default namespace with no keys",
			route:   api.RouteDescriptor{Name: "empty", URL: "empty"},
			wantNil: true,
		},
		{
			name:    "missing key",
			route:   api.RouteDescriptor{Name: "orders", URL: "shop/orders-api", Path: "v2.json"},
			wantErr: "has no key",
		},
		{
			name:    "missing configmap",
			route:   api.RouteDescriptor{Name: "gone", URL: "shop/gone"},
			wantErr: "not found",
		},
		{
			name:    "invalid reference",
			route:   api.RouteDescriptor{Name: "bad", URL: "a/b/c"},
			wantErr: "invalid configmap reference",
		},
		{
			name:    "empty reference",
			route:   api.RouteDescriptor{Name: "bad"},
			wantErr: "empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := r.Fetch(context.Background(), tt.route)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, doc)
				return
			}
			require.NotNil(t, doc)
			assert.Equal(t, tt.wantTitle, doc.Title)
			assert.Contains(t, doc.Source, "configmap://")
		})
	}
}

func TestDefaultRegistry_ConfigMapWithClient(t *testing.T) {
	reader := newFakeReader(t)
	calls := 0
	r := DefaultRegistry(Dependencies{
		NewKubeClient: func() (client.Reader, error) {
			calls++
			return reader, nil
		},
	})

	c := NewCache(r)
	first, err := c.GetOrCreate(api.ResolverKindConfigMap)
	require.NoError(t, err)
	second, err := c.GetOrCreate(api.ResolverKindConfigMap)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}
