package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"docsync/internal/api"
	"docsync/internal/document"
	"docsync/internal/resolver"
	"docsync/pkg/logging"
)

// Loop is the periodic reconciliation engine.
type Loop struct {
	mu sync.Mutex

	source   api.ConfigurationSource
	registry *resolver.Registry
	store    api.SessionStore
	interval time.Duration
	metrics  *LoopMetrics
	onTick   func(*TickResult)

	// cache holds one resolver per kind for the life of a run.
	cache *resolver.Cache

	state  State
	cancel context.CancelFunc
	done   chan struct{}

	// wake cuts the current sleep short.
	wake chan struct{}

	// tickMu serialises RunOnce with the background goroutine.
	tickMu   sync.Mutex
	lastTick *TickResult
}

// NewLoop creates a stopped loop.
func NewLoop(cfg LoopConfig) (*Loop, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("configuration source is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("resolver registry is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewLoopMetrics()
	}

	return &Loop{
		source:   cfg.Source,
		registry: cfg.Registry,
		store:    cfg.Store,
		interval: cfg.Interval,
		metrics:  cfg.Metrics,
		onTick:   cfg.OnTick,
		cache:    resolver.NewCache(cfg.Registry),
		state:    StateStopped,
		wake:     make(chan struct{}, 1),
	}, nil
}

// Start launches the background goroutine. It returns immediately; starting
// a running loop is a no-op. The loop also stops when ctx is cancelled.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateRunning:
		return nil
	case StateStopping:
		return fmt.Errorf("reconcile loop is stopping")
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.state = StateRunning

	go l.run(runCtx, l.done)

	logging.Info("ReconcileLoop", "Started with source %s, interval %v", l.source.Name(), l.interval)
	return nil
}

// Stop cancels the loop and waits for the goroutine to exit. Safe to call
// before Start and more than once.
func (l *Loop) Stop() error {
	l.mu.Lock()
	if l.state != StateRunning {
		l.mu.Unlock()
		return nil
	}
	l.state = StateStopping
	cancel := l.cancel
	done := l.done
	l.mu.Unlock()

	logging.Info("ReconcileLoop", "Stopping reconcile loop...")
	cancel()
	<-done

	l.mu.Lock()
	l.state = StateStopped
	l.cancel = nil
	l.mu.Unlock()

	logging.Info("ReconcileLoop", "Reconcile loop stopped")
	return nil
}

// Trigger wakes a sleeping loop so the next tick starts now. A tick in
// progress is never interrupted; a trigger during a tick shortens the
// following sleep.
func (l *Loop) Trigger() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// State returns the lifecycle state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// IsRunning returns whether the background goroutine is active.
func (l *Loop) IsRunning() bool {
	return l.State() == StateRunning
}

// Interval returns the sleep between ticks.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// SourceName returns the name of the configuration source.
func (l *Loop) SourceName() string {
	return l.source.Name()
}

// Metrics returns the loop's metrics.
func (l *Loop) Metrics() *LoopMetrics {
	return l.metrics
}

// Health reports whether the loop is running and its source is reachable.
func (l *Loop) Health() Health {
	return l.metrics.health(l.State())
}

// LastTick returns a copy of the most recent tick result, or nil.
func (l *Loop) LastTick() *TickResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastTick == nil {
		return nil
	}
	r := *l.lastTick
	r.Failures = append([]Failure(nil), l.lastTick.Failures...)
	r.RouteKeys = append([]string(nil), l.lastTick.RouteKeys...)
	r.Changes = append([]Change(nil), l.lastTick.Changes...)
	return &r
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer func() {
		l.cache.Reset()

		l.mu.Lock()
		// Parent context cancelled without Stop.
		if l.state == StateRunning {
			l.state = StateStopped
			l.cancel = nil
			logging.Info("ReconcileLoop", "Reconcile loop stopped: %v", ctx.Err())
		}
		l.mu.Unlock()
		close(done)
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		l.RunOnce(ctx)

		if !l.sleep(ctx) {
			return
		}
	}
}

// sleep waits for the interval, a trigger or cancellation. It returns false
// when the loop should exit.
func (l *Loop) sleep(ctx context.Context) bool {
	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-l.wake:
		logging.Debug("ReconcileLoop", "Woken early by trigger")
		return ctx.Err() == nil
	}
}

// RunOnce executes a single tick synchronously.
//
// Routes are processed in source order. Each resolved document's context
// path is recorded; documents whose ContextID differs from the cached one
// are written. Once every route has been tried, every cached path not seen
// in this tick is pruned. A source failure skips the tick and leaves the
// store untouched; cancellation abandons the tick without pruning.
func (l *Loop) RunOnce(ctx context.Context) *TickResult {
	l.tickMu.Lock()
	defer l.tickMu.Unlock()

	result := &TickResult{
		ID:        uuid.NewString(),
		Source:    l.source.Name(),
		StartedAt: time.Now(),
	}
	defer l.finish(result)

	routes, err := l.source.Routes(ctx)
	if err != nil {
		if ctx.Err() != nil {
			result.Abandoned = true
			return result
		}
		sourceErr := &SourceFetchError{Source: l.source.Name(), Err: err}
		logging.Warn("ReconcileLoop", "Skipping tick %s: %v", result.ID, sourceErr)
		f := newFailure(api.RouteDescriptor{}, "", sourceErr)
		result.SourceError = &f
		return result
	}

	result.Routes = len(routes)
	result.RouteKeys = make([]string, 0, len(routes))
	seen := make(map[string]struct{}, len(routes))
	claimedBy := make(map[string]string, len(routes))

	for _, route := range routes {
		if ctx.Err() != nil {
			result.Abandoned = true
			return result
		}
		result.RouteKeys = append(result.RouteKeys, route.Key())

		doc, fail := l.resolve(ctx, route)
		if fail != nil {
			if ctx.Err() != nil {
				result.Abandoned = true
				return result
			}
			result.Failures = append(result.Failures, *fail)
			continue
		}

		if owner, dup := claimedBy[doc.ContextPath]; dup {
			derr := &DuplicateContextPathError{Route: route.Key(), ContextPath: doc.ContextPath, ClaimedBy: owner}
			logging.Warn("ReconcileLoop", "%v", derr)
			result.Failures = append(result.Failures, newFailure(route, doc.ContextPath, derr))
			continue
		}
		claimedBy[doc.ContextPath] = route.Key()

		result.Resolved++
		seen[doc.ContextPath] = struct{}{}

		if fail := l.apply(ctx, route, doc, result); fail != nil {
			result.Failures = append(result.Failures, *fail)
		}
	}

	if ctx.Err() != nil {
		result.Abandoned = true
		return result
	}

	removed, err := l.store.Prune(ctx, seen)
	if err != nil {
		storeErr := &StoreError{Op: "prune", Err: err}
		logging.Warn("ReconcileLoop", "%v", storeErr)
		result.Failures = append(result.Failures, newFailure(api.RouteDescriptor{}, "", storeErr))
	}
	result.Pruned = removed
	if removed > 0 {
		logging.Info("ReconcileLoop", "Pruned %d document(s) no longer resolved", removed)
	}

	return result
}

// resolve obtains the resolver for route and fetches its document.
func (l *Loop) resolve(ctx context.Context, route api.RouteDescriptor) (*api.ServiceDocument, *Failure) {
	res, err := l.cache.GetOrCreate(route.Kind)
	if err != nil {
		rerr := &ResolverConstructionError{Route: route.Name, Kind: route.Kind, Err: err}
		logging.Warn("ReconcileLoop", "%v", rerr)
		f := newFailure(route, route.EffectiveContextPath(), rerr)
		return nil, &f
	}

	doc, err := res.Fetch(ctx, route)
	if err != nil || doc == nil {
		if err == nil {
			err = ErrNoDocument
		}
		ferr := &DocumentFetchError{Route: route.Name, Kind: route.Kind, Err: err}
		if errors.Is(err, ErrNoDocument) {
			logging.Debug("ReconcileLoop", "%v", ferr)
		} else {
			logging.Warn("ReconcileLoop", "%v", ferr)
		}
		f := newFailure(route, route.EffectiveContextPath(), ferr)
		return nil, &f
	}

	if doc.ContextPath == "" {
		doc.ContextPath = route.EffectiveContextPath()
	}
	return doc, nil
}

// apply diffs doc against the store and writes it when it changed.
func (l *Loop) apply(ctx context.Context, route api.RouteDescriptor, doc *api.ServiceDocument, result *TickResult) *Failure {
	cached, ok, err := l.store.Get(ctx, doc.ContextPath)
	if err != nil {
		serr := &StoreError{Op: "get", ContextPath: doc.ContextPath, Err: err}
		logging.Warn("ReconcileLoop", "%v", serr)
		f := newFailure(route, doc.ContextPath, serr)
		return &f
	}
	if !ok {
		cached = nil
	}

	if !document.ShouldUpdate(cached, doc) {
		result.Unchanged++
		return nil
	}

	if err := l.store.Upsert(ctx, doc); err != nil {
		serr := &StoreError{Op: "upsert", ContextPath: doc.ContextPath, Err: err}
		logging.Warn("ReconcileLoop", "%v", serr)
		f := newFailure(route, doc.ContextPath, serr)
		return &f
	}

	change := Change{
		Route:       route.Name,
		Namespace:   route.Namespace,
		ContextPath: doc.ContextPath,
		ContextID:   doc.ContextID,
		Action:      ChangeAdded,
	}
	if cached == nil {
		result.Added++
		logging.Info("ReconcileLoop", "Added document %s from route %s", doc.ContextPath, route.Name)
	} else {
		change.Action = ChangeUpdated
		result.Updated++
		logging.Info("ReconcileLoop", "Updated document %s from route %s", doc.ContextPath, route.Name)
	}
	result.Changes = append(result.Changes, change)
	return nil
}

func (l *Loop) finish(result *TickResult) {
	result.FinishedAt = time.Now()
	l.metrics.RecordTick(result)

	l.mu.Lock()
	l.lastTick = result
	l.mu.Unlock()

	if l.onTick != nil {
		l.onTick(result)
	}

	switch {
	case result.Abandoned:
		logging.Debug("ReconcileLoop", "Tick %s abandoned after %v", result.ID, result.Duration())
	case result.SourceError == nil:
		logging.Debug("ReconcileLoop", "Tick %s: %d routes, %d resolved, %d added, %d updated, %d pruned in %v",
			result.ID, result.Routes, result.Resolved, result.Added, result.Updated, result.Pruned, result.Duration())
	}
}
