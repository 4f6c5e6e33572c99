// Package server exposes the reconcile loop over a small HTTP status API.
//
// Routes:
//
//	GET  /healthz    200 or 503 with the loop's Health
//	GET  /status     loop state, metrics, last tick and document summaries
//	POST /reconcile  wakes a sleeping loop; returns 202
//
// Document payloads are never served. The server is read-only apart from
// /reconcile, which only shortens the current sleep.
package server
