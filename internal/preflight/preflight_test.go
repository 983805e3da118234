package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"warscout/internal/config"
	"warscout/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	testsupport.WriteScript(t, present, "exit 0")
	results := CheckBinaries([]Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary", Description: "needed"},
		{Name: "Blank"},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Passed {
		t.Fatalf("expected present binary to pass, got %#v", results[0])
	}
	if results[1].Passed || results[1].Detail != `binary "clearly-not-present-binary" not found (needed)` {
		t.Fatalf("unexpected missing result %#v", results[1])
	}
	if results[2].Passed || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank result %#v", results[2])
	}
}

func TestCheckRegions(t *testing.T) {
	cfg := config.Default()
	if CheckRegions(&cfg).Passed {
		t.Fatal("default config has no regions and must fail")
	}
	cfg.Regions.DetailMarker = config.Rect{Width: 1, Height: 1}
	cfg.Regions.PlayerName = config.Rect{Width: 1, Height: 1}
	cfg.Regions.GeneralsRow = config.Rect{Width: 90, Height: 10}
	result := CheckRegions(&cfg)
	if !result.Passed || result.Detail != "3 general slots, no obstruction region" {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestCheckNtfy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	url := srv.URL

	if result := CheckNtfy(context.Background(), url); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	srv.Close()
	if result := CheckNtfy(context.Background(), url); result.Passed || !result.Optional {
		t.Fatalf("expected optional failure, got %#v", result)
	}
}

func TestRunAllAndFailed(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.LogDir = base
	cfg.Capture.Command = []string{"clearly-not-present-grabber"}
	cfg.Recognition.Command = []string{"clearly-not-present-ocr"}
	cfg.Recognition.WarmupCommand = []string{"clearly-not-present-warmup"}

	results := RunAll(context.Background(), &cfg)
	failed := Failed(results)
	names := map[string]bool{}
	for _, r := range failed {
		names[r.Name] = true
	}
	if !names["Capture command"] || !names["Recognition command"] || !names["Screen regions"] {
		t.Fatalf("unexpected failures %#v", failed)
	}
	if names["Recognizer warmup"] || names["Data directory"] {
		t.Fatalf("unexpected failures %#v", failed)
	}
}
