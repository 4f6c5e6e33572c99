// Package app wires docsync together and runs it.
//
// NewApplication loads config.yaml, sets up logging and builds the Services:
//
//   - the configuration source selected by source.mode (disk, static or
//     kubernetes)
//   - the resolver registry with the disk, http and configmap resolvers
//   - the session store (memory or redis)
//   - the reconcile loop
//   - in disk mode with watching enabled, a file watcher that triggers the loop
//   - the status server, unless disabled
//
// The Kubernetes client is created lazily, so clusters are only contacted in
// kubernetes mode or once a configmap route is seen.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// stops the loop, the watcher and the server and closes the store.
//
// RunCheck performs a single tick against an in-memory store, for validating
// a configuration without serving it.
package app
