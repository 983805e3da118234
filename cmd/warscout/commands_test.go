package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"warscout/internal/monitor"
	"warscout/internal/testsupport"
)

func TestPlayersListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"players", "list"}, env.configPath, "")
	if err != nil {
		t.Fatalf("players list: %v", err)
	}
	requireContains(t, out, "No players found")

	testsupport.MustSave(t, env.store, "赵云", "吴 · 大乔", "汉 · 关羽", "魏 · 荀彧")
	testsupport.MustSave(t, env.store, "Bob", "汉 · 刘备")

	out, _, err = runCLI(t, []string{"players", "list", "--search", "赵"}, env.configPath, "")
	if err != nil {
		t.Fatalf("players list --search: %v", err)
	}
	requireContains(t, out, "赵云")
	requireNotContains(t, out, "Bob")

	out, _, err = runCLI(t, []string{"players", "show", "赵云"}, env.configPath, "")
	if err != nil {
		t.Fatalf("players show: %v", err)
	}
	requireContains(t, out, "魏 · 荀彧")
	requireContains(t, out, "Trusted: no")

	if _, _, err := runCLI(t, []string{"players", "show", "nobody"}, env.configPath, ""); err == nil {
		t.Fatal("expected error for unknown player")
	}
}

func TestPlayersListJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"players", "list", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("players list --json: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", out)
	}
}

func TestPlayersRenameAndDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.MustSave(t, env.store, "天下无双", "吴 · 大乔")

	out, _, err := runCLI(t, []string{"players", "rename", "天下无双", "天下丨无双"}, env.configPath, "")
	if err != nil {
		t.Fatalf("players rename: %v", err)
	}
	requireContains(t, out, "Renamed 天下无双 to 天下丨无双")

	if _, _, err := runCLI(t, []string{"players", "delete", "天下丨无双"}, env.configPath, "n\n"); err == nil {
		t.Fatal("expected declined confirmation to abort")
	}
	known, err := env.store.HasPlayer(context.Background(), "天下丨无双")
	if err != nil || !known {
		t.Fatalf("player should survive an aborted delete: known=%v err=%v", known, err)
	}

	out, _, err = runCLI(t, []string{"players", "delete", "天下丨无双"}, env.configPath, "y\n")
	if err != nil {
		t.Fatalf("players delete: %v", err)
	}
	requireContains(t, out, "Deleted 天下丨无双 (1 record(s))")
}

func TestRecordsEditAndDelete(t *testing.T) {
	env := setupCLITestEnv(t)
	res := testsupport.MustSave(t, env.store, "Alice", "吴 · 大乔", "unknown · unknown", "汉 · 关羽")
	prefix := res.Hash[:8]

	out, _, err := runCLI(t, []string{"records", "edit", prefix, "--general", "", "--general", "魏 · 荀彧", "--note", "main"}, env.configPath, "")
	if err != nil {
		t.Fatalf("records edit: %v", err)
	}
	requireContains(t, out, "吴 · 大乔 | 魏 · 荀彧 | 汉 · 关羽")

	rec, err := env.store.Record(context.Background(), res.Hash)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Note != "main" || rec.Generals[1] != "魏 · 荀彧" {
		t.Fatalf("unexpected record %+v", rec)
	}

	if _, _, err := runCLI(t, []string{"records", "edit", prefix}, env.configPath, ""); err == nil {
		t.Fatal("expected error when nothing changes")
	}

	if _, _, err := runCLI(t, []string{"records", "delete", prefix, "--yes"}, env.configPath, ""); err != nil {
		t.Fatalf("records delete: %v", err)
	}
	if _, err := env.store.Record(context.Background(), res.Hash); err == nil {
		t.Fatal("expected record to be gone")
	}
}

func TestTrustCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"trust", "list"}, env.configPath, "")
	if err != nil {
		t.Fatalf("trust list: %v", err)
	}
	requireContains(t, out, "Trust list is empty")

	if _, _, err := runCLI(t, []string{"trust", "add", "Alice"}, env.configPath, ""); err != nil {
		t.Fatalf("trust add: %v", err)
	}
	out, _, err = runCLI(t, []string{"trust", "list"}, env.configPath, "")
	if err != nil {
		t.Fatalf("trust list: %v", err)
	}
	requireContains(t, out, "Alice")

	out, _, err = runCLI(t, []string{"trust", "remove", "Alice"}, env.configPath, "")
	if err != nil {
		t.Fatalf("trust remove: %v", err)
	}
	requireContains(t, out, "Removed Alice")

	out, _, err = runCLI(t, []string{"trust", "remove", "Alice"}, env.configPath, "")
	if err != nil {
		t.Fatalf("trust remove again: %v", err)
	}
	requireContains(t, out, "was not trusted")
}

func TestExportImport(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.MustSave(t, env.store, "赵云", "吴 · 大乔", "汉 · 关羽", "魏 · 荀彧")
	if err := env.store.AddTrust(context.Background(), "赵云"); err != nil {
		t.Fatalf("AddTrust: %v", err)
	}
	target := filepath.Join(env.baseDir, "out.csv")

	out, _, err := runCLI(t, []string{"export", target, "--encoding", "gb18030"}, env.configPath, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 1 record(s)")

	if _, err := env.store.DeletePlayer(context.Background(), "赵云"); err != nil {
		t.Fatalf("DeletePlayer: %v", err)
	}

	out, _, err = runCLI(t, []string{"import", target, "--encoding", "gb18030"}, env.configPath, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "Imported 1 row(s), skipped 0")
	requireContains(t, out, "Backed up database to ")
	backups, err := filepath.Glob(env.cfg.DatabasePath() + ".*.bak")
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected one database backup, got %v (err=%v)", backups, err)
	}

	recs, err := env.store.RecordsFor(context.Background(), "赵云")
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected one restored record, got %d (err=%v)", len(recs), err)
	}

	out, _, err = runCLI(t, []string{"import", target, "--no-backup"}, env.configPath, "")
	if err != nil {
		t.Fatalf("import --no-backup: %v", err)
	}
	requireNotContains(t, out, "Backed up database")

	if _, _, err := runCLI(t, []string{"import", target, "--encoding", "latin1", "--no-backup"}, env.configPath, ""); err == nil {
		t.Fatal("expected unknown encoding to fail")
	}
}

func TestStatsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.MustSave(t, env.store, "Alice", "吴 · 大乔")

	out, _, err := runCLI(t, []string{"stats"}, env.configPath, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "Records:  1")
}

func TestRegionsSplit(t *testing.T) {
	out, _, err := runCLI(t, []string{"regions", "split", "300", "400", "90", "30"}, "", "")
	if err != nil {
		t.Fatalf("regions split: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(lines[1], "x = 360") || !strings.Contains(lines[3], "x = 300") {
		t.Fatalf("expected right-to-left slots, got %q", out)
	}

	if _, _, err := runCLI(t, []string{"regions", "split", "0", "0", "2", "10"}, "", ""); err == nil {
		t.Fatal("expected error for a row narrower than three slots")
	}
}

func TestConfigInitValidateShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.cfg.Paths.DataDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestCheckReportsMissingTools(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected check to fail without capture tools")
	}
	requireContains(t, out, "Capture command")
	requireContains(t, out, "[ERROR]")
}

func TestCheckPassesWithStubbedTools(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"check"}, env.configPath, "")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireNotContains(t, out, "[ERROR]")
}

func TestTestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath, "")
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "ntfy topic not configured")
}

func TestStatusPrinterCollapsesRepeats(t *testing.T) {
	var buf strings.Builder
	printer := &statusPrinter{out: &buf}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	waiting := monitor.Status{State: monitor.WaitingForDetail, Message: "waiting for report", At: at}
	recorded := monitor.Status{
		State:    monitor.Recognized,
		Message:  "recorded: Alice",
		Player:   "Alice",
		Generals: []string{"吴 · 大乔", "unknown · unknown", "exception"},
		Hash:     "abc",
		Created:  true,
		At:       at,
	}
	again := recorded
	again.Created = false

	printer.print(waiting)
	printer.print(waiting)
	printer.print(recorded)
	printer.print(again)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	requireContains(t, lines[0], "waiting for report")
	requireContains(t, lines[1], "recorded: Alice  吴 · 大乔 | unknown · unknown | exception")
}
