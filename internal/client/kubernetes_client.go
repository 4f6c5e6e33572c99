package client

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	docsyncv1alpha1 "docsync/pkg/apis/docsync/v1alpha1"
	"docsync/pkg/logging"
)

// NewScheme returns a scheme with the core Kubernetes types and the
// DocumentRoute CRD registered.
func NewScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(docsyncv1alpha1.AddToScheme(scheme))
	return scheme
}

// DetectConfig loads the REST config from the usual places: the --kubeconfig
// flag, $KUBECONFIG, the in-cluster service account or ~/.kube/config.
func DetectConfig() (*rest.Config, error) {
	restConfig, err := ctrl.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get Kubernetes config: %w", err)
	}
	return restConfig, nil
}

// NewKubernetesClient creates a controller-runtime client for config.
// A nil config triggers DetectConfig.
func NewKubernetesClient(config *rest.Config) (client.Client, error) {
	if config == nil {
		var err error
		config, err = DetectConfig()
		if err != nil {
			return nil, err
		}
	}

	k8sClient, err := client.New(config, client.Options{Scheme: NewScheme()})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	logging.Debug("KubernetesClient", "Connected to %s", config.Host)
	return k8sClient, nil
}

// ValidateCRDs checks that the DocumentRoute CRD is served by the cluster.
func ValidateCRDs(ctx context.Context, c client.Reader, namespace string) error {
	var routes docsyncv1alpha1.DocumentRouteList
	if err := c.List(ctx, &routes, client.InNamespace(namespace), client.Limit(1)); err != nil {
		return fmt.Errorf("DocumentRoute CRD not available: %w", err)
	}
	return nil
}
