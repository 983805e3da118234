package testsupport

import (
	"context"
	"testing"

	"warscout/internal/config"
	"warscout/internal/records"
)

// MustOpenStore opens a records.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *records.Store {
	t.Helper()

	store, err := records.Open(cfg)
	if err != nil {
		t.Fatalf("records.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustSave stores a composition for tests using the provided store.
func MustSave(t testing.TB, store *records.Store, player string, generals ...string) records.SaveResult {
	t.Helper()

	res, err := store.Save(context.Background(), player, generals)
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return res
}
