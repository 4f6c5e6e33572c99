package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	kubeclient "docsync/internal/client"
	"docsync/internal/reconciler"
	docsyncv1alpha1 "docsync/pkg/apis/docsync/v1alpha1"
)

func newFakeClient(routes ...string) client.Client {
	objs := make([]client.Object, 0, len(routes))
	for _, name := range routes {
		objs = append(objs, &docsyncv1alpha1.DocumentRoute{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "shop", UID: types.UID("uid-" + name)},
			Spec:       docsyncv1alpha1.DocumentRouteSpec{Resolver: "http", URL: "http://" + name},
		})
	}
	return fake.NewClientBuilder().WithScheme(kubeclient.NewScheme()).WithObjects(objs...).Build()
}

func listEvents(t *testing.T, c client.Client) []corev1.Event {
	t.Helper()
	var list corev1.EventList
	require.NoError(t, c.List(context.Background(), &list, client.InNamespace("shop")))
	return list.Items
}

func fetchFailure(route, message string) reconciler.Failure {
	return reconciler.Failure{
		Route:       route,
		Namespace:   "shop",
		Kind:        "http",
		ContextPath: "/" + route,
		Class:       reconciler.ClassFetch,
		Message:     message,
	}
}

func TestObserveTick_Changes(t *testing.T) {
	c := newFakeClient("orders", "billing")
	g := NewEventGenerator(c)

	g.ObserveTick(&reconciler.TickResult{Changes: []reconciler.Change{
		{Route: "orders", Namespace: "shop", ContextPath: "/orders", ContextID: "0123456789abcdef", Action: reconciler.ChangeAdded},
		{Route: "billing", Namespace: "shop", ContextPath: "/billing", ContextID: "ff", Action: reconciler.ChangeUpdated},
		// Not from a DocumentRoute.
		{Route: "local", ContextPath: "/local", Action: reconciler.ChangeAdded},
	}})

	evts := listEvents(t, c)
	require.Len(t, evts, 2)

	byReason := map[string]corev1.Event{}
	for _, e := range evts {
		byReason[e.Reason] = e
	}

	added := byReason[string(ReasonDocumentAdded)]
	assert.Equal(t, "Document /orders added (context 0123456789ab)", added.Message)
	assert.Equal(t, string(EventTypeNormal), added.Type)
	assert.Equal(t, "DocumentRoute", added.InvolvedObject.Kind)
	assert.Equal(t, types.UID("uid-orders"), added.InvolvedObject.UID)
	assert.Equal(t, Component, added.Source.Component)

	assert.Equal(t, "Document /billing updated (context ff)", byReason[string(ReasonDocumentUpdated)].Message)
}

func TestObserveTick_FailuresAreDeduplicated(t *testing.T) {
	c := newFakeClient("orders")
	g := NewEventGenerator(c)

	failing := &reconciler.TickResult{Failures: []reconciler.Failure{fetchFailure("orders", "unexpected status 503")}}

	g.ObserveTick(failing)
	g.ObserveTick(failing)
	require.Len(t, listEvents(t, c), 1)

	evt := listEvents(t, c)[0]
	assert.Equal(t, string(ReasonDocumentFetchFailed), evt.Reason)
	assert.Equal(t, string(EventTypeWarning), evt.Type)
	assert.Equal(t, "Failed to fetch document for /orders: unexpected status 503", evt.Message)

	// A different error is reported again.
	g.ObserveTick(&reconciler.TickResult{Failures: []reconciler.Failure{fetchFailure("orders", "unexpected status 500")}})
	assert.Len(t, listEvents(t, c), 2)

	// Recovery resets the state, so the next failure is reported.
	g.ObserveTick(&reconciler.TickResult{})
	g.ObserveTick(&reconciler.TickResult{Failures: []reconciler.Failure{fetchFailure("orders", "unexpected status 500")}})
	assert.Len(t, listEvents(t, c), 3)
}

func TestObserveTick_SkipsIncompleteTicks(t *testing.T) {
	c := newFakeClient("orders")
	g := NewEventGenerator(c)

	change := []reconciler.Change{{Route: "orders", Namespace: "shop", ContextPath: "/orders", Action: reconciler.ChangeAdded}}
	g.ObserveTick(nil)
	g.ObserveTick(&reconciler.TickResult{Abandoned: true, Changes: change})
	g.ObserveTick(&reconciler.TickResult{SourceError: &reconciler.Failure{Class: reconciler.ClassSource}, Changes: change})

	assert.Empty(t, listEvents(t, c))
}

func TestObserveTick_DeletedRouteGetsNoEvent(t *testing.T) {
	c := newFakeClient()
	g := NewEventGenerator(c)

	g.ObserveTick(&reconciler.TickResult{Changes: []reconciler.Change{
		{Route: "gone", Namespace: "shop", ContextPath: "/gone", Action: reconciler.ChangeAdded},
	}})

	assert.Empty(t, listEvents(t, c))
}

func TestMessageTemplateEngine(t *testing.T) {
	e := NewMessageTemplateEngine()

	tests := []struct {
		name   string
		reason EventReason
		data   EventData
		want   string
	}{
		{
			name:   "resolver unavailable",
			reason: ReasonResolverUnavailable,
			data:   EventData{Name: "orders", Kind: "configmap", Error: "no Kubernetes client configured"},
			want:   "No configmap resolver available for route orders: no Kubernetes client configured",
		},
		{
			name:   "store failure",
			reason: ReasonStoreWriteFailed,
			data:   EventData{Name: "orders", ContextPath: "/orders", Error: "redis down"},
			want:   "Failed to store document /orders: redis down",
		},
		{
			name:   "added without context id",
			reason: ReasonDocumentAdded,
			data:   EventData{ContextPath: "/orders"},
			want:   "Document /orders added",
		},
		{
			name:   "unknown reason falls back",
			reason: "Mystery",
			data:   EventData{Name: "orders", Error: "boom"},
			want:   "Mystery for route orders: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Render(tt.reason, tt.data))
		})
	}
}

func TestMessageTemplateEngine_BrokenTemplateFallsBack(t *testing.T) {
	e := NewMessageTemplateEngine()
	e.SetTemplate(ReasonDocumentAdded, "{{.Missing}}")

	assert.Equal(t, "DocumentAdded for route orders", e.Render(ReasonDocumentAdded, EventData{Name: "orders"}))
}

func TestGetEventType(t *testing.T) {
	assert.Equal(t, EventTypeNormal, getEventType(ReasonDocumentAdded))
	assert.Equal(t, EventTypeNormal, getEventType(ReasonDocumentUpdated))
	assert.Equal(t, EventTypeWarning, getEventType(ReasonDocumentFetchFailed))
	assert.Equal(t, EventTypeWarning, getEventType(ReasonResolverUnavailable))
	assert.Equal(t, EventTypeWarning, getEventType(ReasonStoreWriteFailed))
}
