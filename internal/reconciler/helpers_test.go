package reconciler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docsync/internal/api"
	"docsync/internal/resolver"
	"docsync/internal/session"
)

const testKind api.ResolverKind = "fake"

// fakeSource returns a mutable route list and signals every call.
type fakeSource struct {
	mu     sync.Mutex
	routes []api.RouteDescriptor
	err    error
	calls  int
	called chan struct{}
}

func newFakeSource(names ...string) *fakeSource {
	s := &fakeSource{called: make(chan struct{}, 100)}
	s.setRoutes(names...)
	return s
}

func (s *fakeSource) setRoutes(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = nil
	for _, n := range names {
		s.routes = append(s.routes, api.RouteDescriptor{Name: n, Kind: testKind})
	}
}

func (s *fakeSource) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeSource) Routes(ctx context.Context) ([]api.RouteDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	select {
	case s.called <- struct{}{}:
	default:
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]api.RouteDescriptor, len(s.routes))
	copy(out, s.routes)
	return out, nil
}

func (s *fakeSource) Name() string { return "fake" }

// response is what fakeResolver returns for one route.
type response struct {
	id          string
	contextPath string
	err         error
	noDocument  bool
	block       bool
}

// fakeResolver answers from a per-route table.
type fakeResolver struct {
	mu        sync.Mutex
	responses map[string]response
	fetches   map[string]int
	blocked   chan string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		responses: make(map[string]response),
		fetches:   make(map[string]int),
		blocked:   make(chan string, 10),
	}
}

func (r *fakeResolver) set(route string, resp response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[route] = resp
}

func (r *fakeResolver) Fetch(ctx context.Context, route api.RouteDescriptor) (*api.ServiceDocument, error) {
	r.mu.Lock()
	resp, ok := r.responses[route.Name]
	r.fetches[route.Name]++
	r.mu.Unlock()

	if resp.block {
		r.blocked <- route.Name
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if !ok {
		resp = response{id: "v1"}
	}
	if resp.err != nil {
		return nil, resp.err
	}
	if resp.noDocument {
		return nil, nil
	}
	path := resp.contextPath
	if path == "" {
		path = route.EffectiveContextPath()
	}
	return &api.ServiceDocument{
		ContextPath: path,
		ContextID:   resp.id,
		Name:        route.Name,
		Payload:     []byte(resp.id),
	}, nil
}

// countingStore wraps a memory store and counts writes.
type countingStore struct {
	*session.MemoryStore
	mu        sync.Mutex
	upserts   int
	upsertErr error
	pruneErr  error
}

func (s *countingStore) Upsert(ctx context.Context, doc *api.ServiceDocument) error {
	s.mu.Lock()
	s.upserts++
	err := s.upsertErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.Upsert(ctx, doc)
}

func (s *countingStore) Prune(ctx context.Context, keep map[string]struct{}) (int, error) {
	if s.pruneErr != nil {
		return 0, s.pruneErr
	}
	return s.MemoryStore.Prune(ctx, keep)
}

func (s *countingStore) upsertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

type testHarness struct {
	source     *fakeSource
	resolver   *fakeResolver
	store      *countingStore
	loop       *Loop
	factoryMu  sync.Mutex
	factoryRun int
}

func newHarness(t *testing.T, interval time.Duration, routes ...string) *testHarness {
	t.Helper()
	h := &testHarness{
		source:   newFakeSource(routes...),
		resolver: newFakeResolver(),
		store:    &countingStore{MemoryStore: session.NewMemoryStore()},
	}

	registry := resolver.NewRegistry()
	require.NoError(t, registry.Register(testKind, func() (api.DocumentResolver, error) {
		h.factoryMu.Lock()
		h.factoryRun++
		h.factoryMu.Unlock()
		return h.resolver, nil
	}))
	require.NoError(t, registry.Register("broken", func() (api.DocumentResolver, error) {
		return nil, errors.New("missing credentials")
	}))

	loop, err := NewLoop(LoopConfig{
		Source:   h.source,
		Registry: registry,
		Store:    h.store,
		Interval: interval,
	})
	require.NoError(t, err)
	h.loop = loop
	t.Cleanup(func() { _ = loop.Stop() })
	return h
}

func (h *testHarness) factoryCalls() int {
	h.factoryMu.Lock()
	defer h.factoryMu.Unlock()
	return h.factoryRun
}

func (h *testHarness) seed(t *testing.T, docs map[string]string) {
	t.Helper()
	for path, id := range docs {
		require.NoError(t, h.store.MemoryStore.Upsert(context.Background(), &api.ServiceDocument{ContextPath: path, ContextID: id}))
	}
}

func (h *testHarness) paths(t *testing.T) map[string]string {
	t.Helper()
	docs, err := h.store.List(context.Background())
	require.NoError(t, err)
	out := make(map[string]string, len(docs))
	for _, d := range docs {
		out[d.ContextPath] = d.ContextID
	}
	return out
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}
