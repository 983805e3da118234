// Package monitor runs the polling loop that turns battle report screens
// into team records.
//
// Each tick walks a small state machine: an obstructed screen is Blocked, a
// screen without the report marker is WaitingForDetail, an unreadable player
// name returns to Idle, and a fully read report is resolved, saved, and
// reported as Recognized. The loop is the only writer to the record store
// while it runs. Stop is cooperative: the tick in progress, including an
// open name-conflict prompt, finishes before the loop exits.
package monitor
