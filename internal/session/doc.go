// Package session provides the SessionStore implementations that hold the
// authoritative contextPath → ServiceDocument cache.
//
// # Implementations
//
//   - **MemoryStore**: copy-on-write map behind an atomic pointer. Readers load
//     the current snapshot without locking; the single writer (the reconcile
//     loop) builds a new map under a mutex and publishes it atomically.
//   - **RedisStore**: one Redis hash per store, one field per context path,
//     each value a JSON-encoded document. HSET replaces a field atomically so
//     readers in other processes never observe a partial document.
//
// Both stores return copies from Get and List; callers may mutate what they
// receive without affecting the cache.
package session
