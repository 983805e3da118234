// Package notifications pushes monitor events to ntfy.
//
// The ntfy topic comes from config.toml (or WARSCOUT_NTFY_TOPIC); without one
// NewService returns a no-op. New records and open name conflicts each have
// their own switch so a phone can be told only about the prompts that block
// monitoring.
package notifications
