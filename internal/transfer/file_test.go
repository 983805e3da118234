package transfer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"warscout/internal/testsupport"
	"warscout/internal/transfer"
)

func TestExportImportFiles(t *testing.T) {
	ctx := context.Background()
	src := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	testsupport.MustSave(t, src, "Alpha", "吴 · 大乔", "汉 · 关羽")
	testsupport.MustSave(t, src, "Bravo", "魏 · 荀彧")
	if err := src.AddTrust(ctx, "Bravo"); err != nil {
		t.Fatalf("AddTrust failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "records.csv")
	n, err := transfer.ExportFile(ctx, src, path, transfer.EncodingGB18030)
	if err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows exported, got %d", n)
	}

	// Append a short row that must be skipped.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	if _, err := f.WriteString("broken,0\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	dst := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	result, err := transfer.ImportFile(ctx, dst, path, transfer.EncodingGB18030)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	trusted, err := dst.IsTrusted(ctx, "Bravo")
	if err != nil || !trusted {
		t.Fatalf("trust not imported (trusted=%v err=%v)", trusted, err)
	}
	stats, err := dst.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Players != 2 || stats.Records != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestImportFileMissing(t *testing.T) {
	dst := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := transfer.ImportFile(context.Background(), dst, filepath.Join(t.TempDir(), "nope.csv"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}
