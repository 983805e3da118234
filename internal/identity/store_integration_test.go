package identity_test

import (
	"context"
	"testing"

	"warscout/internal/identity"
	"warscout/internal/reconcile"
	"warscout/internal/testsupport"
)

func TestMatcherAgainstRecordStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	old := testsupport.MustSave(t, store, "天下无双", "吴 · 大乔")

	broker := reconcile.NewBroker()
	defer broker.Close()
	go func() {
		p := <-broker.Requests()
		_ = p.Respond(reconcile.Response{Decision: reconcile.KeepCandidate})
	}()

	m := identity.NewMatcher(store, broker, identity.Options{MinRatio: 0.75, MaxRatio: 1, Remember: true}, nil)
	res, err := m.Resolve(ctx, "天下丨无双")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Name != "天下丨无双" || res.Reason != identity.ReasonReconciled {
		t.Fatalf("unexpected resolution %+v", res)
	}
	rec, err := store.Record(ctx, old.Hash)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if rec.Player != "天下丨无双" {
		t.Fatalf("record not moved: %+v", rec)
	}
}

func TestRememberedDecisionFollowsStoreRename(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	testsupport.MustSave(t, store, "天下无双", "吴 · 大乔")

	prompts := 0
	keepKnown := reconcile.Func(func(context.Context, reconcile.Request) (reconcile.Response, error) {
		prompts++
		return reconcile.Response{Decision: reconcile.KeepKnown}, nil
	})
	m := identity.NewMatcher(store, keepKnown, identity.Options{MinRatio: 0.75, MaxRatio: 1, Remember: true}, nil)

	res, err := m.Resolve(ctx, "天下无亚")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Name != "天下无双" {
		t.Fatalf("unexpected resolution %+v", res)
	}

	if err := store.Rename(ctx, "天下无双", "别的名字"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	res, err = m.Resolve(ctx, "天下无亚")
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if res.Name != "天下无亚" || res.Reason != identity.ReasonNew {
		t.Fatalf("expected new identity after rename, got %+v", res)
	}
	if prompts != 1 {
		t.Fatalf("expected one prompt, got %d", prompts)
	}
}
