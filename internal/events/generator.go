package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"docsync/internal/reconciler"
	docsyncv1alpha1 "docsync/pkg/apis/docsync/v1alpha1"
	"docsync/pkg/logging"
)

const (
	// Component is the event source reported to Kubernetes.
	Component = "docsync"

	defaultTimeout = 10 * time.Second
)

// EventGenerator records Kubernetes Events on DocumentRoute resources from
// the results of reconcile ticks.
//
// Every added or updated document produces a Normal event. A failing route
// produces a Warning the first time it fails and again whenever the error
// message changes, so a route that stays broken does not emit an event on
// every tick.
type EventGenerator struct {
	client    client.Client
	templates *MessageTemplateEngine
	timeout   time.Duration

	mu      sync.Mutex
	failing map[types.NamespacedName]string
}

// NewEventGenerator creates a generator that writes events with c.
func NewEventGenerator(c client.Client) *EventGenerator {
	return &EventGenerator{
		client:    c,
		templates: NewMessageTemplateEngine(),
		timeout:   defaultTimeout,
		failing:   make(map[types.NamespacedName]string),
	}
}

// ObserveTick records events for result. Routes without a namespace did not
// come from DocumentRoute resources and are ignored. Abandoned ticks and
// ticks whose source failed carry no per-route outcome and are skipped.
func (g *EventGenerator) ObserveTick(result *reconciler.TickResult) {
	if result == nil || result.Abandoned || result.SourceError != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	g.mu.Lock()
	defer g.mu.Unlock()

	stillFailing := make(map[types.NamespacedName]bool, len(result.Failures))
	for _, f := range result.Failures {
		if f.Namespace == "" || f.Route == "" {
			continue
		}
		key := types.NamespacedName{Namespace: f.Namespace, Name: f.Route}
		stillFailing[key] = true
		if last, ok := g.failing[key]; ok && last == f.Message {
			continue
		}
		g.failing[key] = f.Message

		g.emit(ctx, key, reasonForFailure(f.Class), EventData{
			Name:        f.Route,
			Namespace:   f.Namespace,
			Kind:        string(f.Kind),
			ContextPath: f.ContextPath,
			Error:       f.Message,
		})
	}

	for key := range g.failing {
		if !stillFailing[key] {
			delete(g.failing, key)
		}
	}

	for _, c := range result.Changes {
		if c.Namespace == "" {
			continue
		}
		key := types.NamespacedName{Namespace: c.Namespace, Name: c.Route}
		g.emit(ctx, key, reasonForChange(c.Action), EventData{
			Name:        c.Route,
			Namespace:   c.Namespace,
			ContextPath: c.ContextPath,
			ContextID:   c.ContextID,
		})
	}
}

func (g *EventGenerator) emit(ctx context.Context, key types.NamespacedName, reason EventReason, data EventData) {
	message := g.templates.Render(reason, data)
	eventType := getEventType(reason)

	logging.Debug("events", "Generating DocumentRoute event: route=%s reason=%s type=%s message=%s",
		key, reason, eventType, message)

	if err := g.CreateEvent(ctx, key, reason, message, eventType); err != nil {
		logging.Warn("events", "Failed to record %s event for DocumentRoute %s: %v", reason, key, err)
	}
}

// CreateEvent creates a Kubernetes Event referencing the DocumentRoute key.
// The route is looked up for its UID; a route that no longer exists gets no
// event.
func (g *EventGenerator) CreateEvent(ctx context.Context, key types.NamespacedName, reason EventReason, message string, eventType EventType) error {
	var route docsyncv1alpha1.DocumentRoute
	if err := g.client.Get(ctx, key, &route); err != nil {
		return fmt.Errorf("failed to get DocumentRoute: %w", err)
	}

	now := metav1.NewTime(time.Now())
	event := &corev1.Event{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: key.Name + "-",
			Namespace:    key.Namespace,
		},
		InvolvedObject: corev1.ObjectReference{
			APIVersion: docsyncv1alpha1.GroupVersion.String(),
			Kind:       "DocumentRoute",
			Name:       route.Name,
			Namespace:  route.Namespace,
			UID:        route.UID,
		},
		Reason:         string(reason),
		Message:        message,
		Type:           string(eventType),
		Source:         corev1.EventSource{Component: Component},
		FirstTimestamp: now,
		LastTimestamp:  now,
		Count:          1,
	}

	if err := g.client.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create Kubernetes Event: %w", err)
	}
	return nil
}
