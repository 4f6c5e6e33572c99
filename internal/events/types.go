package events

import (
	"docsync/internal/reconciler"
)

// EventType represents the type/severity of a Kubernetes Event.
type EventType string

const (
	// EventTypeNormal indicates normal, non-problematic events.
	EventTypeNormal EventType = "Normal"

	// EventTypeWarning indicates events that may require attention.
	EventTypeWarning EventType = "Warning"
)

// EventReason represents the reason code for an event.
type EventReason string

const (
	// ReasonDocumentAdded indicates a route's document entered the session store.
	ReasonDocumentAdded EventReason = "DocumentAdded"

	// ReasonDocumentUpdated indicates a route's document changed and was replaced.
	ReasonDocumentUpdated EventReason = "DocumentUpdated"

	// ReasonResolverUnavailable indicates no resolver could be built for the route's kind.
	ReasonResolverUnavailable EventReason = "ResolverUnavailable"

	// ReasonDocumentFetchFailed indicates the resolver could not produce a document.
	ReasonDocumentFetchFailed EventReason = "DocumentFetchFailed"

	// ReasonStoreWriteFailed indicates the session store rejected the document.
	ReasonStoreWriteFailed EventReason = "StoreWriteFailed"
)

// EventData contains data used for event message templating.
type EventData struct {
	// Name is the DocumentRoute name.
	Name string

	// Namespace is the DocumentRoute namespace.
	Namespace string

	// Kind is the resolver kind, for failures.
	Kind string

	ContextPath string
	ContextID   string

	// Error is the sanitized error message for failure events.
	Error string
}

// getEventType returns the appropriate EventType for a given EventReason.
func getEventType(reason EventReason) EventType {
	switch reason {
	case ReasonResolverUnavailable, ReasonDocumentFetchFailed, ReasonStoreWriteFailed:
		return EventTypeWarning
	default:
		return EventTypeNormal
	}
}

func reasonForChange(action reconciler.ChangeAction) EventReason {
	if action == reconciler.ChangeUpdated {
		return ReasonDocumentUpdated
	}
	return ReasonDocumentAdded
}

func reasonForFailure(class reconciler.ErrorClass) EventReason {
	switch class {
	case reconciler.ClassResolver:
		return ReasonResolverUnavailable
	case reconciler.ClassStore:
		return ReasonStoreWriteFailed
	default:
		return ReasonDocumentFetchFailed
	}
}
