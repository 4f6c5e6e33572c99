// Package api defines the contracts shared between docsync packages.
//
// The reconcile loop never imports a concrete source, resolver or store.
// Everything it touches is described here so that packages can be developed
// and tested in isolation:
//
//   - **ConfigurationSource** yields the declared routes on every tick
//   - **DocumentResolver** turns one route into a ServiceDocument
//   - **ResolverFactory** builds a DocumentResolver for a ResolverKind
//   - **SessionStore** is the authoritative path → document cache
//
// # Data Model
//
// A RouteDescriptor is ephemeral: sources build a fresh list on every call and
// nothing holds on to it after the tick. A ServiceDocument is identified by its
// ContextPath; its ContextID is a fingerprint used only to decide whether a
// cached copy has to be replaced.
//
// # Concurrency
//
// SessionStore implementations are read by the status endpoint while the loop
// writes to them, so every implementation must be safe for concurrent use and
// must never hand out a partially written document.
package api
