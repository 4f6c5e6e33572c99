// Package logging provides the structured, subsystem-tagged logger used across
// docsync.
//
// The package wraps Go's standard slog package behind a small set of helpers so
// that every log line carries the subsystem that produced it:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("ReconcileLoop", "Started with interval %s", interval)
//	logging.Debug("HTTPResolver", "GET %s", url)
//	logging.Warn("ReconcileLoop", "Route %s skipped: %v", name, err)
//	logging.Error("SessionStore", err, "Failed to prune")
//
// # Levels
//
//   - **Debug**: per-route detail such as unchanged documents
//   - **Info**: lifecycle and changed documents
//   - **Warn**: recoverable failures (a skipped tick or route)
//   - **Error**: failures an operator has to act on
//
// # Output Formats
//
// InitForCLI writes logfmt-style text. InitWithFormat additionally accepts
// FormatJSON for log shippers.
//
// # Controller-Runtime Integration
//
// Initialisation also installs a logr bridge onto the same slog handler so
// controller-runtime clients used by the Kubernetes source log through the
// same output instead of warning about an unset logger.
//
// # Thread Safety
//
// All helpers are safe for concurrent use. Initialisation is expected to happen
// once at startup, before goroutines start logging.
package logging
