package api

import (
	"context"
	"strings"
	"time"
)

// ResolverKind selects the DocumentResolver implementation for a route.
type ResolverKind string

const (
	// ResolverKindDisk reads a document from the local filesystem.
	ResolverKindDisk ResolverKind = "disk"

	// ResolverKindHTTP fetches a document from a remote URL.
	ResolverKindHTTP ResolverKind = "http"

	// ResolverKindConfigMap reads a document from a Kubernetes ConfigMap key.
	ResolverKindConfigMap ResolverKind = "configmap"
)

// ValidResolverKinds lists every kind a route may declare.
var ValidResolverKinds = map[ResolverKind]bool{
	ResolverKindDisk:      true,
	ResolverKindHTTP:      true,
	ResolverKindConfigMap: true,
}

// OAuth2Credentials configures the client-credentials grant for remote routes.
type OAuth2Credentials struct {
	TokenURL     string   `yaml:"tokenURL" json:"tokenURL"`
	ClientID     string   `yaml:"clientID" json:"clientID"`
	ClientSecret string   `yaml:"clientSecret" json:"clientSecret"`
	Scopes       []string `yaml:"scopes,omitempty" json:"scopes,omitempty"`
}

// RouteDescriptor identifies one declared service route.
type RouteDescriptor struct {
	// Name is the unique route name within a source.
	Name string `yaml:"name" json:"name"`

	// Kind selects the resolver used to fetch the document.
	Kind ResolverKind `yaml:"kind" json:"kind"`

	// URL is the remote endpoint (http) or "namespace/name" (configmap).
	URL string `yaml:"url,omitempty" json:"url,omitempty"`

	// Path is a file or directory (disk) or the data key (configmap).
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// ContextPath overrides the cache identity. Defaults to "/" + Name.
	ContextPath string `yaml:"contextPath,omitempty" json:"contextPath,omitempty"`

	// Headers are sent with remote requests. Values may contain templates.
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`

	// OAuth2 enables the client-credentials grant for remote requests.
	OAuth2 *OAuth2Credentials `yaml:"oauth2,omitempty" json:"oauth2,omitempty"`

	// Labels are copied onto the resolved document.
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`

	// Timeout bounds a single fetch. Zero means the resolver default.
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Namespace is set for routes read from DocumentRoute resources.
	Namespace string `yaml:"-" json:"namespace,omitempty"`
}

// Key identifies the route in logs and metrics: "namespace/name" for routes
// read from DocumentRoute resources, the bare name otherwise.
func (r RouteDescriptor) Key() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "/" + r.Name
}

// EffectiveContextPath returns the cache identity for documents of this route.
func (r RouteDescriptor) EffectiveContextPath() string {
	if r.ContextPath != "" {
		return normalizeContextPath(r.ContextPath)
	}
	return normalizeContextPath(r.Name)
}

func normalizeContextPath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// ServiceDocument is a resolved API description for one route.
type ServiceDocument struct {
	// ContextPath is the stable identity key in the session store.
	ContextPath string `json:"contextPath"`

	// ContextID is a content fingerprint used only for change detection.
	ContextID string `json:"contextId"`

	// Name is the route name the document was resolved from.
	Name string `json:"name"`

	// Title and Version come from the document's info block, when present.
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`

	// Format is "openapi3", "swagger2" or "unknown".
	Format string `json:"format"`

	// Source is where the payload was read from (URL, file or ConfigMap key).
	Source string `json:"source"`

	Labels map[string]string `json:"labels,omitempty"`

	// Payload is the raw document as fetched.
	Payload []byte `json:"payload"`

	FetchedAt time.Time `json:"fetchedAt"`
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (d *ServiceDocument) Clone() *ServiceDocument {
	if d == nil {
		return nil
	}
	out := *d
	if d.Payload != nil {
		out.Payload = append([]byte(nil), d.Payload...)
	}
	if d.Labels != nil {
		out.Labels = make(map[string]string, len(d.Labels))
		for k, v := range d.Labels {
			out.Labels[k] = v
		}
	}
	return &out
}

// DocumentSummary describes a stored document without its payload.
type DocumentSummary struct {
	ContextPath string            `json:"contextPath"`
	ContextID   string            `json:"contextId"`
	Name        string            `json:"name"`
	Title       string            `json:"title,omitempty"`
	Version     string            `json:"version,omitempty"`
	Format      string            `json:"format"`
	Source      string            `json:"source"`
	Size        int               `json:"size"`
	Labels      map[string]string `json:"labels,omitempty"`
	FetchedAt   time.Time         `json:"fetchedAt"`
}

// Summary returns the document's metadata.
func (d *ServiceDocument) Summary() DocumentSummary {
	return DocumentSummary{
		ContextPath: d.ContextPath,
		ContextID:   d.ContextID,
		Name:        d.Name,
		Title:       d.Title,
		Version:     d.Version,
		Format:      d.Format,
		Source:      d.Source,
		Size:        len(d.Payload),
		Labels:      d.Labels,
		FetchedAt:   d.FetchedAt,
	}
}

// ConfigurationSource yields the current list of declared routes.
type ConfigurationSource interface {
	// Routes returns the routes in source order.
	Routes(ctx context.Context) ([]RouteDescriptor, error)

	// Name identifies the source in logs and status output.
	Name() string
}

// DocumentResolver fetches the document for a route.
//
// A nil document with a nil error means the route currently has nothing to
// offer; the loop treats it like a failed fetch.
type DocumentResolver interface {
	Fetch(ctx context.Context, route RouteDescriptor) (*ServiceDocument, error)
}

// ResolverFactory constructs the resolver for one kind.
type ResolverFactory func() (DocumentResolver, error)

// SessionStore is the authoritative cache of path → document.
type SessionStore interface {
	// Get returns the cached document for a context path.
	Get(ctx context.Context, contextPath string) (*ServiceDocument, bool, error)

	// Upsert writes a document, replacing any entry with the same context path.
	Upsert(ctx context.Context, doc *ServiceDocument) error

	// Prune removes every entry whose context path is not in keep.
	Prune(ctx context.Context, keep map[string]struct{}) (int, error)
}

// SnapshotReader is implemented by stores that can list their content.
type SnapshotReader interface {
	List(ctx context.Context) ([]*ServiceDocument, error)
}

// Trigger wakes a sleeping loop early.
type Trigger interface {
	Trigger()
}
