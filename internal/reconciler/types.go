package reconciler

import (
	"time"

	"docsync/internal/api"
	"docsync/internal/resolver"
)

// DefaultInterval is the sleep between two ticks.
const DefaultInterval = 10 * time.Second

// State is the loop lifecycle state.
type State string

const (
	StateStopped  State = "Stopped"
	StateRunning  State = "Running"
	StateStopping State = "Stopping"
)

// LoopConfig holds the loop's collaborators.
type LoopConfig struct {
	// Source yields the routes each tick. Required.
	Source api.ConfigurationSource

	// Registry provides the resolver factories. Required.
	Registry *resolver.Registry

	// Store is the session store being reconciled. Required.
	Store api.SessionStore

	// Interval between ticks. Defaults to DefaultInterval.
	Interval time.Duration

	// Metrics receives tick results. A fresh set is created when nil.
	Metrics *LoopMetrics

	// OnTick, when set, is called with every finished tick from the goroutine
	// that ran it. It must not block for long.
	OnTick func(*TickResult)
}

// Failure records one thing that went wrong during a tick.
type Failure struct {
	Route       string           `json:"route,omitempty"`
	Namespace   string           `json:"namespace,omitempty"`
	Kind        api.ResolverKind `json:"kind,omitempty"`
	ContextPath string           `json:"contextPath,omitempty"`
	Class       ErrorClass       `json:"class"`

	// Message is the sanitized error text.
	Message string `json:"message"`

	Err error `json:"-"`
}

// Key is the route key the failure belongs to, empty for tick-wide failures.
func (f Failure) Key() string {
	if f.Route == "" || f.Namespace == "" {
		return f.Route
	}
	return f.Namespace + "/" + f.Route
}

func newFailure(route api.RouteDescriptor, path string, err error) Failure {
	return Failure{
		Route:       route.Name,
		Namespace:   route.Namespace,
		Kind:        route.Kind,
		ContextPath: path,
		Class:       classify(err),
		Message:     SanitizeErrorMessage(err.Error()),
		Err:         err,
	}
}

// ChangeAction says how a document reached the store.
type ChangeAction string

const (
	ChangeAdded   ChangeAction = "added"
	ChangeUpdated ChangeAction = "updated"
)

// Change records one document written to the store.
type Change struct {
	Route       string       `json:"route"`
	Namespace   string       `json:"namespace,omitempty"`
	ContextPath string       `json:"contextPath"`
	ContextID   string       `json:"contextId"`
	Action      ChangeAction `json:"action"`
}

// TickResult summarises one pass over the routes.
type TickResult struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	// Routes is the number of routes the source returned.
	Routes int `json:"routes"`
	// RouteKeys holds api.RouteDescriptor.Key for every route, in source order.
	RouteKeys []string `json:"-"`

	Resolved  int `json:"resolved"`
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Pruned    int `json:"pruned"`

	// Abandoned is set when the tick was cancelled before it could prune.
	Abandoned bool `json:"abandoned,omitempty"`

	// Changes lists the documents written during the tick.
	Changes []Change `json:"changes,omitempty"`

	// SourceError is set when the route list could not be fetched.
	SourceError *Failure  `json:"sourceError,omitempty"`
	Failures    []Failure `json:"failures,omitempty"`
}

// Duration returns how long the tick took.
func (r *TickResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// OK reports whether every route resolved and the store accepted every write.
func (r *TickResult) OK() bool {
	return !r.Abandoned && r.SourceError == nil && len(r.Failures) == 0
}
