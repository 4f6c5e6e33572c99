// Package reconciler keeps the session store in sync with the declared routes.
//
// # Overview
//
// A Loop runs on a single background goroutine. Each tick it asks the
// configuration source for the current routes, resolves every route to a
// document through the resolver for the route's kind, writes documents whose
// ContextID changed, and finally prunes every cached path that was not
// resolved in this tick. Then it sleeps for the interval and starts over.
//
// # Failure handling
//
// Nothing that goes wrong during a tick stops the loop:
//
//   - SourceFetchError: the route list could not be fetched. The tick is
//     skipped entirely and the cache is left untouched.
//   - ResolverConstructionError: the resolver for a route's kind could not be
//     built. The route is skipped and its cached entry is pruned.
//   - DocumentFetchError: the resolver failed or returned no document. The
//     route is skipped and its cached entry is pruned.
//
// There is no backoff. The next tick is the retry.
//
// # Lifecycle
//
// A loop moves Stopped → Running → Stopping → Stopped. Start is a no-op when
// already running; Stop is safe to call at any time and returns once the
// goroutine has exited. Stop interrupts the sleep but lets a tick in progress
// observe cancellation on its own; an interrupted tick never prunes.
//
// Example usage:
//
//	loop, err := reconciler.NewLoop(reconciler.LoopConfig{
//	    Source:   src,
//	    Registry: resolver.DefaultRegistry(deps),
//	    Store:    store,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := loop.Start(ctx); err != nil {
//	    return err
//	}
//	defer loop.Stop()
package reconciler
