// Package logging assembles structured slog loggers and formatting helpers used
// across warscout.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and provides the warning/error helpers that enforce event_type,
// error_hint, and impact fields. Every run writes warscout-<run>.log under
// log_dir; PruneRunLogs removes old ones. A no-op logger is available for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so the monitor, the
// store, and the CLI emit records with the same shape.
package logging
