// Package resolver fetches service documents for routes.
//
// Each route names a resolver kind. A Registry maps kinds to factories and a
// Cache constructs at most one resolver per kind, on first use, and hands the
// same instance back for every later route of that kind. A factory that fails
// is retried on the next request; failures are never cached.
//
// Built-in kinds:
//
//   - disk: reads a file, or the first document file in a directory
//   - http: GETs a URL, with templated headers and optional OAuth2
//     client-credentials
//   - configmap: reads a key from a Kubernetes ConfigMap
package resolver
