// Package preflight checks that the tools and paths warscout relies on are
// usable before monitoring starts.
//
// The CLI "check" command prints every Result. "run" calls RunAll as well and
// refuses to start when a required check fails, since a missing capture tool
// would otherwise surface only as a stream of failed readings.
package preflight
