// Package reconcile carries identity conflicts from the monitor worker to a
// human and the answer back.
//
// The Broker is a single-slot rendezvous: Reconcile blocks the caller until a
// consumer of Requests responds, the broker is closed, or the caller's
// context ends. Each request is answered exactly once; a second Respond
// returns ErrAlreadyAnswered. There is no timeout on the human side.
package reconcile
