package reconcile

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAlreadyAnswered is returned when a pending request is answered twice.
	ErrAlreadyAnswered = errors.New("reconciliation already answered")
	// ErrClosed is returned when the broker shuts down with a request open.
	ErrClosed = errors.New("reconciliation broker closed")
)

// Decision is the human answer to an identity conflict.
type Decision int

const (
	// KeepCandidate renames the known player to the freshly read name.
	KeepCandidate Decision = iota + 1
	// KeepKnown files the observation under the existing name.
	KeepKnown
	// Discard drops the observation without touching any identity.
	Discard
)

func (d Decision) String() string {
	switch d {
	case KeepCandidate:
		return "keep_candidate"
	case KeepKnown:
		return "keep_known"
	case Discard:
		return "discard"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Request describes one conflict between a recognized name and a stored one.
type Request struct {
	Candidate string
	Known     string
	Ratio     float64
}

// Response is the answer to a Request. Trust adds the chosen name to the
// trust list; it is ignored for Discard.
type Response struct {
	Decision Decision
	Trust    bool
}

// Valid reports whether the response carries a known decision.
func (r Response) Valid() bool {
	return r.Decision >= KeepCandidate && r.Decision <= Discard
}

// Reconciler resolves identity conflicts, blocking until answered.
type Reconciler interface {
	Reconcile(ctx context.Context, req Request) (Response, error)
}

// Func adapts a function to Reconciler.
type Func func(ctx context.Context, req Request) (Response, error)

// Reconcile calls f.
func (f Func) Reconcile(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// WithHook calls hook before each request reaches inner.
func WithHook(inner Reconciler, hook func(ctx context.Context, req Request)) Reconciler {
	if hook == nil {
		return inner
	}
	return Func(func(ctx context.Context, req Request) (Response, error) {
		hook(ctx, req)
		return inner.Reconcile(ctx, req)
	})
}
