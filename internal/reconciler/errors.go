package reconciler

import (
	"errors"
	"fmt"
	"regexp"

	"docsync/internal/api"
)

// ErrNoDocument is wrapped by DocumentFetchError when a resolver returns
// neither a document nor an error.
var ErrNoDocument = errors.New("resolver returned no document")

// ErrorClass groups failures for metrics and status output.
type ErrorClass string

const (
	ClassSource   ErrorClass = "source"
	ClassResolver ErrorClass = "resolver"
	ClassFetch    ErrorClass = "fetch"
	ClassStore    ErrorClass = "store"
)

// SourceFetchError means the route list could not be fetched; the tick is skipped.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("failed to fetch routes from %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// ResolverConstructionError means no resolver could be obtained for a route's kind.
type ResolverConstructionError struct {
	Route string
	Kind  api.ResolverKind
	Err   error
}

func (e *ResolverConstructionError) Error() string {
	return fmt.Sprintf("no resolver for route %s (kind %q): %v", e.Route, e.Kind, e.Err)
}

func (e *ResolverConstructionError) Unwrap() error { return e.Err }

// DocumentFetchError means the resolver failed or returned nothing.
type DocumentFetchError struct {
	Route string
	Kind  api.ResolverKind
	Err   error
}

func (e *DocumentFetchError) Error() string {
	return fmt.Sprintf("failed to fetch document for route %s: %v", e.Route, e.Err)
}

func (e *DocumentFetchError) Unwrap() error { return e.Err }

// DuplicateContextPathError means a route resolved to a context path that an
// earlier route already claimed in the same tick. The earlier route wins.
type DuplicateContextPathError struct {
	Route       string
	ContextPath string
	ClaimedBy   string
}

func (e *DuplicateContextPathError) Error() string {
	return fmt.Sprintf("route %s resolved to %s, already served by route %s", e.Route, e.ContextPath, e.ClaimedBy)
}

// StoreError wraps a session store failure.
type StoreError struct {
	Op          string
	ContextPath string
	Err         error
}

func (e *StoreError) Error() string {
	if e.ContextPath == "" {
		return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s failed for %s: %v", e.Op, e.ContextPath, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// classify maps an error to its class.
func classify(err error) ErrorClass {
	var (
		sourceErr   *SourceFetchError
		resolverErr *ResolverConstructionError
		fetchErr    *DocumentFetchError
		dupErr      *DuplicateContextPathError
	)
	switch {
	case errors.As(err, &sourceErr):
		return ClassSource
	case errors.As(err, &resolverErr):
		return ClassResolver
	case errors.As(err, &fetchErr), errors.As(err, &dupErr):
		return ClassFetch
	default:
		return ClassStore
	}
}

var (
	bearerPattern   = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`)
	keyValuePattern = regexp.MustCompile(`(?i)\b(password|passwd|secret|client_secret|token|access_token|apikey|api_key)(\s*[=:]\s*)[^\s,;&"']+`)
	pathPattern     = regexp.MustCompile(`(^|[\s"'=(])((?:/[^\s/"':]+)+/)`)
	base64Pattern   = regexp.MustCompile(`[A-Za-z0-9+/_-]{40,}={0,2}`)
)

// SanitizeErrorMessage redacts credentials and local paths from an error
// message before it is exposed in status output.
func SanitizeErrorMessage(msg string) string {
	if msg == "" {
		return ""
	}
	msg = bearerPattern.ReplaceAllString(msg, "${1}[REDACTED]")
	msg = keyValuePattern.ReplaceAllString(msg, "${1}${2}[REDACTED]")
	msg = pathPattern.ReplaceAllString(msg, "${1}<path>/")
	msg = base64Pattern.ReplaceAllString(msg, "[REDACTED]")
	return msg
}
