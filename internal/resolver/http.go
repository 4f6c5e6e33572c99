package resolver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"docsync/internal/api"
	"docsync/internal/document"
	"docsync/internal/template"
	"docsync/pkg/logging"
)

const (
	// DefaultFetchTimeout bounds a single document request.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultMaxDocumentSize caps the bytes read from a response body.
	DefaultMaxDocumentSize int64 = 16 << 20

	defaultAccept = "application/json, application/yaml;q=0.9, */*;q=0.8"
)

// HTTPResolver fetches documents from remote endpoints.
type HTTPResolver struct {
	httpClient     *http.Client
	templates      *template.Engine
	defaultTimeout time.Duration
	maxSize        int64

	// oauthClients caches one token-refreshing client per credential set.
	oauthMu      sync.Mutex
	oauthClients map[string]*http.Client
}

// HTTPOption configures the HTTP resolver.
type HTTPOption func(*HTTPResolver)

// WithHTTPClient sets the base HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTPResolver) {
		r.httpClient = c
	}
}

// WithDefaultTimeout sets the timeout for routes that do not declare one.
func WithDefaultTimeout(d time.Duration) HTTPOption {
	return func(r *HTTPResolver) {
		r.defaultTimeout = d
	}
}

// WithMaxDocumentSize caps response bodies.
func WithMaxDocumentSize(n int64) HTTPOption {
	return func(r *HTTPResolver) {
		r.maxSize = n
	}
}

// NewHTTPResolver creates a new HTTP resolver.
func NewHTTPResolver(opts ...HTTPOption) *HTTPResolver {
	r := &HTTPResolver{
		httpClient:     &http.Client{},
		templates:      template.New(),
		defaultTimeout: DefaultFetchTimeout,
		maxSize:        DefaultMaxDocumentSize,
		oauthClients:   make(map[string]*http.Client),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch GETs route.URL. A 204 or an empty body yields no document.
func (r *HTTPResolver) Fetch(ctx context.Context, route api.RouteDescriptor) (*api.ServiceDocument, error) {
	if route.URL == "" {
		return nil, fmt.Errorf("route %s has no url", route.Name)
	}

	timeout := route.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, route.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url for route %s: %w", route.Name, err)
	}
	req.Header.Set("Accept", defaultAccept)

	headers, err := r.templates.RenderMap(route.Headers, templateData(route))
	if err != nil {
		return nil, fmt.Errorf("failed to render headers for route %s: %w", route.Name, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logging.Debug("HTTPResolver", "GET %s for route %s", route.URL, route.Name)

	resp, err := r.clientFor(route).Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", route.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, route.URL)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, r.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", route.URL, err)
	}
	if int64(len(payload)) > r.maxSize {
		return nil, fmt.Errorf("document from %s exceeds %d bytes", route.URL, r.maxSize)
	}
	if len(strings.TrimSpace(string(payload))) == 0 {
		return nil, nil
	}

	doc, err := document.Build(route, payload, route.URL, "")
	if err != nil {
		return nil, fmt.Errorf("invalid document from %s: %w", route.URL, err)
	}
	return doc, nil
}

// clientFor returns the plain client or a cached OAuth2 client for route.
func (r *HTTPResolver) clientFor(route api.RouteDescriptor) *http.Client {
	creds := route.OAuth2
	if creds == nil || creds.TokenURL == "" {
		return r.httpClient
	}

	key := credentialKey(creds)

	r.oauthMu.Lock()
	defer r.oauthMu.Unlock()

	if c, ok := r.oauthClients[key]; ok {
		return c
	}

	cfg := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
		Scopes:       creds.Scopes,
	}
	// The token source lives as long as the resolver, not the request.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, r.httpClient)
	c := cfg.Client(tokenCtx)
	r.oauthClients[key] = c
	return c
}

// Close drops cached OAuth2 clients and idle connections.
func (r *HTTPResolver) Close() error {
	r.oauthMu.Lock()
	r.oauthClients = make(map[string]*http.Client)
	r.oauthMu.Unlock()
	r.httpClient.CloseIdleConnections()
	return nil
}

func credentialKey(c *api.OAuth2Credentials) string {
	h := sha256.New()
	for _, part := range []string{c.TokenURL, c.ClientID, c.ClientSecret, strings.Join(c.Scopes, " ")} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func templateData(route api.RouteDescriptor) map[string]interface{} {
	labels := route.Labels
	if labels == nil {
		labels = map[string]string{}
	}
	return map[string]interface{}{
		"Name":        route.Name,
		"URL":         route.URL,
		"ContextPath": route.EffectiveContextPath(),
		"Labels":      labels,
	}
}
