package reconcile

import (
	"context"
	"fmt"
	"sync"
)

// Pending is a request waiting for its answer.
type Pending struct {
	Request

	once  sync.Once
	reply chan Response
}

// Respond delivers the answer. Only the first call has effect.
func (p *Pending) Respond(resp Response) error {
	if !resp.Valid() {
		return fmt.Errorf("invalid decision %v", resp.Decision)
	}
	delivered := false
	p.once.Do(func() {
		p.reply <- resp
		delivered = true
	})
	if !delivered {
		return ErrAlreadyAnswered
	}
	return nil
}

// Broker hands requests from one worker to one responder.
type Broker struct {
	mu        sync.Mutex
	requests  chan *Pending
	closed    chan struct{}
	closeOnce sync.Once
}

// NewBroker returns an open broker.
func NewBroker() *Broker {
	return &Broker{
		requests: make(chan *Pending),
		closed:   make(chan struct{}),
	}
}

// Requests yields pending requests to the responder.
func (b *Broker) Requests() <-chan *Pending {
	return b.requests
}

// Reconcile publishes req and waits for the answer. Concurrent callers are
// serialized so at most one request is outstanding.
func (b *Broker) Reconcile(ctx context.Context, req Request) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	pending := &Pending{Request: req, reply: make(chan Response, 1)}
	select {
	case b.requests <- pending:
	case <-b.closed:
		return Response{}, ErrClosed
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}

	select {
	case resp := <-pending.reply:
		return resp, nil
	case <-b.closed:
		return Response{}, ErrClosed
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Close releases any waiting caller with ErrClosed. Later calls to
// Reconcile fail immediately.
func (b *Broker) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}

// Serve answers requests with r until ctx ends or the broker closes.
func (b *Broker) Serve(ctx context.Context, r Reconciler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.closed:
			return ErrClosed
		case pending := <-b.requests:
			resp, err := r.Reconcile(ctx, pending.Request)
			if err != nil {
				resp = Response{Decision: Discard}
			}
			_ = pending.Respond(resp)
			if err != nil {
				return err
			}
		}
	}
}
