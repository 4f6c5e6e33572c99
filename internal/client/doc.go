// Package client builds the controller-runtime client shared by the
// Kubernetes route source and the ConfigMap resolver.
//
// Configuration is detected the way kubectl does it, so the same binary runs
// in-cluster and against a developer's kubeconfig. The scheme returned by
// NewScheme knows the core types plus docsync.dev/v1alpha1.
package client
