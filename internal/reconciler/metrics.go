package reconciler

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// UnhealthySourceFailures is the number of consecutive source failures after
// which the loop reports itself unhealthy.
const UnhealthySourceFailures = 3

// LoopMetrics tracks reconciliation counters for status output and health checks.
//
// Counters are cumulative for the life of the process. Per-route entries are
// keyed by route key ("namespace/name" for DocumentRoutes) and dropped once a
// route disappears from the source.
type LoopMetrics struct {
	mu sync.RWMutex

	ticks          int64
	abandonedTicks int64
	added          int64
	updated        int64
	unchanged      int64
	pruned         int64

	failures                  map[ErrorClass]int64
	consecutiveSourceFailures int

	lastTickAt    time.Time
	lastSuccessAt time.Time
	lastError     string

	routes map[string]*routeMetrics
}

type routeMetrics struct {
	Route               string
	ConsecutiveFailures int
	LastSuccessAt       time.Time
	LastFailureAt       time.Time
	LastError           string
	LastErrorClass      ErrorClass
}

// NewLoopMetrics creates an empty metrics set.
func NewLoopMetrics() *LoopMetrics {
	return &LoopMetrics{
		failures: make(map[ErrorClass]int64),
		routes:   make(map[string]*routeMetrics),
	}
}

// RecordTick folds a completed or skipped tick into the counters.
func (m *LoopMetrics) RecordTick(r *TickResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticks++
	m.lastTickAt = r.FinishedAt

	if r.Abandoned {
		m.abandonedTicks++
		return
	}

	if r.SourceError != nil {
		m.failures[ClassSource]++
		m.consecutiveSourceFailures++
		m.lastError = r.SourceError.Message
		return
	}
	m.consecutiveSourceFailures = 0
	m.lastSuccessAt = r.FinishedAt

	m.added += int64(r.Added)
	m.updated += int64(r.Updated)
	m.unchanged += int64(r.Unchanged)
	m.pruned += int64(r.Pruned)

	failed := make(map[string]bool, len(r.Failures))
	for _, f := range r.Failures {
		m.failures[f.Class]++
		m.lastError = f.Message
		key := f.Key()
		if key == "" {
			continue
		}
		failed[key] = true
		rm := m.route(key)
		rm.ConsecutiveFailures++
		rm.LastFailureAt = r.FinishedAt
		rm.LastError = f.Message
		rm.LastErrorClass = f.Class
	}

	present := make(map[string]bool, len(r.RouteKeys))
	for _, key := range r.RouteKeys {
		present[key] = true
		if failed[key] {
			continue
		}
		rm := m.route(key)
		rm.ConsecutiveFailures = 0
		rm.LastSuccessAt = r.FinishedAt
	}
	for name := range m.routes {
		if !present[name] {
			delete(m.routes, name)
		}
	}
}

func (m *LoopMetrics) route(name string) *routeMetrics {
	if rm, ok := m.routes[name]; ok {
		return rm
	}
	rm := &routeMetrics{Route: name}
	m.routes[name] = rm
	return rm
}

// ConsecutiveSourceFailures returns how many ticks in a row failed to fetch routes.
func (m *LoopMetrics) ConsecutiveSourceFailures() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.consecutiveSourceFailures
}

// MetricsSummary is a point-in-time copy of the metrics.
type MetricsSummary struct {
	Ticks                     int64              `json:"ticks"`
	AbandonedTicks            int64              `json:"abandoned_ticks"`
	Added                     int64              `json:"added"`
	Updated                   int64              `json:"updated"`
	Unchanged                 int64              `json:"unchanged"`
	Pruned                    int64              `json:"pruned"`
	SourceFailures            int64              `json:"source_failures"`
	ResolverFailures          int64              `json:"resolver_failures"`
	FetchFailures             int64              `json:"fetch_failures"`
	StoreFailures             int64              `json:"store_failures"`
	ConsecutiveSourceFailures int                `json:"consecutive_source_failures"`
	LastTickAt                time.Time          `json:"last_tick_at,omitempty"`
	LastSuccessAt             time.Time          `json:"last_success_at,omitempty"`
	LastError                 string             `json:"last_error,omitempty"`
	Routes                    []RouteMetricsView `json:"routes"`
}

// RouteMetricsView is a read-only view of one route's failure tracking.
type RouteMetricsView struct {
	Route               string     `json:"route"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastSuccessAt       time.Time  `json:"last_success_at,omitempty"`
	LastFailureAt       time.Time  `json:"last_failure_at,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
	LastErrorClass      ErrorClass `json:"last_error_class,omitempty"`
}

// GetSummary returns a copy of all counters with routes sorted by name.
func (m *LoopMetrics) GetSummary() MetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := MetricsSummary{
		Ticks:                     m.ticks,
		AbandonedTicks:            m.abandonedTicks,
		Added:                     m.added,
		Updated:                   m.updated,
		Unchanged:                 m.unchanged,
		Pruned:                    m.pruned,
		SourceFailures:            m.failures[ClassSource],
		ResolverFailures:          m.failures[ClassResolver],
		FetchFailures:             m.failures[ClassFetch],
		StoreFailures:             m.failures[ClassStore],
		ConsecutiveSourceFailures: m.consecutiveSourceFailures,
		LastTickAt:                m.lastTickAt,
		LastSuccessAt:             m.lastSuccessAt,
		LastError:                 m.lastError,
		Routes:                    make([]RouteMetricsView, 0, len(m.routes)),
	}
	for _, rm := range m.routes {
		s.Routes = append(s.Routes, RouteMetricsView(*rm))
	}
	sort.Slice(s.Routes, func(i, j int) bool { return s.Routes[i].Route < s.Routes[j].Route })
	return s
}

// Health is the loop's liveness verdict.
type Health struct {
	Healthy bool   `json:"healthy"`
	State   State  `json:"state"`
	Reason  string `json:"reason,omitempty"`
}

func (m *LoopMetrics) health(state State) Health {
	h := Health{Healthy: true, State: state}
	if state != StateRunning {
		h.Healthy = false
		h.Reason = "reconcile loop is not running"
		return h
	}
	if n := m.ConsecutiveSourceFailures(); n >= UnhealthySourceFailures {
		h.Healthy = false
		h.Reason = fmt.Sprintf("configuration source failed %d times in a row", n)
	}
	return h
}
