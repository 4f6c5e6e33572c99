// Package v1alpha1 contains API Schema definitions for the docsync v1alpha1 API group.
//
// # API Group: docsync.dev/v1alpha1
//
// ## DocumentRoute
//
// DocumentRoute declares one service whose API description docsync keeps in
// sync. When docsync runs with the kubernetes source, every DocumentRoute in
// the watched namespace becomes one route on each reconcile tick; deleting the
// resource removes the document from the cache on the next tick.
//
// Example:
//
//	apiVersion: docsync.dev/v1alpha1
//	kind: DocumentRoute
//	metadata:
//	  name: petstore
//	  namespace: apis
//	  labels:
//	    team: pets
//	spec:
//	  resolver: http
//	  url: http://petstore.apis.svc:8080/v3/api-docs
//	  contextPath: /petstore
//	  headers:
//	    Accept: application/json
//	  oauth2:
//	    tokenURL: https://sso.example.com/oauth/token
//	    clientID: docsync
//	    clientSecretRef:
//	      name: petstore-docsync
//	      key: client-secret
//
// +kubebuilder:object:generate=true
// +groupName=docsync.dev
package v1alpha1
