package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// DocumentRouteSpec defines the desired state of DocumentRoute
type DocumentRouteSpec struct {
	// Resolver selects how the document is fetched.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:Enum=http;disk;configmap
	Resolver string `json:"resolver" yaml:"resolver"`

	// URL is the document endpoint for http routes, or "namespace/name" of the
	// ConfigMap for configmap routes.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Path is the file path for disk routes or the data key for configmap routes.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// ContextPath is the cache identity of the document. Defaults to
	// "/<namespace>/<name>".
	// +kubebuilder:validation:Pattern="^/?[a-zA-Z0-9/_.-]*$"
	ContextPath string `json:"contextPath,omitempty" yaml:"contextPath,omitempty"`

	// Headers are sent with http requests. Values may use templates.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// OAuth2 enables the client-credentials grant for http routes.
	OAuth2 *DocumentRouteOAuth2 `json:"oauth2,omitempty" yaml:"oauth2,omitempty"`

	// TimeoutSeconds bounds a single fetch.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=300
	TimeoutSeconds int `json:"timeoutSeconds,omitempty" yaml:"timeoutSeconds,omitempty"`

	// Suspend excludes the route from reconciliation without deleting it.
	// The cached document is pruned on the next tick.
	Suspend bool `json:"suspend,omitempty" yaml:"suspend,omitempty"`
}

// DocumentRouteOAuth2 configures the client-credentials grant.
type DocumentRouteOAuth2 struct {
	// +kubebuilder:validation:Required
	TokenURL string `json:"tokenURL" yaml:"tokenURL"`

	// +kubebuilder:validation:Required
	ClientID string `json:"clientID" yaml:"clientID"`

	// ClientSecretRef points at a Secret key in the route's namespace.
	ClientSecretRef *corev1.SecretKeySelector `json:"clientSecretRef,omitempty" yaml:"clientSecretRef,omitempty"`

	Scopes []string `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:shortName=docroute
// +kubebuilder:printcolumn:name="Resolver",type="string",JSONPath=".spec.resolver"
// +kubebuilder:printcolumn:name="Context",type="string",JSONPath=".spec.contextPath"
// +kubebuilder:printcolumn:name="Suspend",type="boolean",JSONPath=".spec.suspend"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"
// +kubebuilder:validation:XValidation:rule="self.spec.resolver != 'http' || has(self.spec.url)",message="url is required when resolver is http"
// +kubebuilder:validation:XValidation:rule="self.spec.resolver != 'disk' || has(self.spec.path)",message="path is required when resolver is disk"

// DocumentRoute is the Schema for the documentroutes API
type DocumentRoute struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec DocumentRouteSpec `json:"spec,omitempty"`
}

// +kubebuilder:object:root=true

// DocumentRouteList contains a list of DocumentRoute
type DocumentRouteList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []DocumentRoute `json:"items"`
}

func init() {
	SchemeBuilder.Register(&DocumentRoute{}, &DocumentRouteList{})
}
