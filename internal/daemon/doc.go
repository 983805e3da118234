// Package daemon owns the lifecycle of a monitoring session.
//
// It holds the single-instance flock on the data directory, starts the
// recognition warmup and the monitor worker, and tears them down in an order
// that never leaves the worker waiting on a reconciliation nobody will
// answer. Component construction lives in daemonrun; this package only
// sequences what it is handed.
package daemon
