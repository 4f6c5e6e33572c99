// Package document holds the pure logic applied to fetched service documents:
// fingerprinting, format inspection and the change check that decides whether
// a cached copy has to be replaced.
//
// Nothing in this package performs I/O. Resolvers call Build to turn a raw
// payload into an api.ServiceDocument, and the reconcile loop calls
// ShouldUpdate to compare it against the session store.
package document
