package reconcile

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestBrokerRendezvous(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	go func() {
		p := <-b.Requests()
		if p.Candidate != "Alphaa" || p.Known != "Alpha" {
			t.Errorf("unexpected request %+v", p.Request)
		}
		if err := p.Respond(Response{Decision: KeepKnown, Trust: true}); err != nil {
			t.Errorf("Respond failed: %v", err)
		}
		if err := p.Respond(Response{Decision: KeepCandidate}); !errors.Is(err, ErrAlreadyAnswered) {
			t.Errorf("expected ErrAlreadyAnswered, got %v", err)
		}
	}()

	resp, err := b.Reconcile(context.Background(), Request{Candidate: "Alphaa", Known: "Alpha", Ratio: 0.8})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if resp.Decision != KeepKnown || !resp.Trust {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestBrokerCloseReleasesWaiter(t *testing.T) {
	b := NewBroker()
	errCh := make(chan error, 1)
	go func() {
		_, err := b.Reconcile(context.Background(), Request{Candidate: "a", Known: "b"})
		errCh <- err
	}()

	<-b.Requests()
	b.Close()
	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not released")
	}

	if _, err := b.Reconcile(context.Background(), Request{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}

func TestBrokerContextCancel(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Reconcile(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBrokerSerializesRequests(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := b.Reconcile(context.Background(), Request{Candidate: "x"}); err != nil {
				t.Errorf("Reconcile failed: %v", err)
			}
		}()
	}

	for i := 0; i < 3; i++ {
		p := <-b.Requests()
		select {
		case extra := <-b.Requests():
			t.Fatalf("second request %+v published while one was outstanding", extra.Request)
		case <-time.After(20 * time.Millisecond):
		}
		if err := p.Respond(Response{Decision: Discard}); err != nil {
			t.Fatalf("Respond failed: %v", err)
		}
	}
	wg.Wait()
}

func TestRespondRejectsInvalidDecision(t *testing.T) {
	p := &Pending{reply: make(chan Response, 1)}
	if err := p.Respond(Response{}); err == nil {
		t.Fatal("expected error for zero decision")
	}
	if err := p.Respond(Response{Decision: KeepCandidate}); err != nil {
		t.Fatalf("valid answer rejected after invalid one: %v", err)
	}
}

func TestServeWithTerminal(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("?\nn\ny\n"), &out)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Serve(ctx, term) }()

	resp, err := b.Reconcile(ctx, Request{Candidate: "Alphaa", Known: "Alpha", Ratio: 0.91})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if resp.Decision != KeepCandidate || !resp.Trust {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestTerminalPrompts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Response
	}{
		{"keep known untrusted", "k\n\n", Response{Decision: KeepKnown}},
		{"discard skips trust", "d\n", Response{Decision: Discard}},
		{"retry on unknown answer", "maybe\nKEEP\nyes\n", Response{Decision: KeepKnown, Trust: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out)
			got, err := term.Reconcile(context.Background(), Request{Candidate: "c", Known: "k", Ratio: 0.8})
			if err != nil {
				t.Fatalf("Reconcile failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
			if !strings.Contains(out.String(), "recognized: c") {
				t.Fatalf("prompt missing candidate: %q", out.String())
			}
		})
	}
}

func TestTerminalInputClosed(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})
	if _, err := term.Reconcile(context.Background(), Request{}); err == nil {
		t.Fatal("expected error when input is closed")
	}
}

func TestWithHook(t *testing.T) {
	var seen []string
	inner := Func(func(ctx context.Context, req Request) (Response, error) {
		seen = append(seen, "inner")
		return Response{Decision: KeepKnown}, nil
	})
	r := WithHook(inner, func(ctx context.Context, req Request) { seen = append(seen, "hook:"+req.Candidate) })
	if _, err := r.Reconcile(context.Background(), Request{Candidate: "x"}); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if strings.Join(seen, ",") != "hook:x,inner" {
		t.Fatalf("unexpected call order %v", seen)
	}
}
