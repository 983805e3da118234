package lexicon

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoadPoolSeedsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "generals.txt")

	names, seeded, err := LoadPool(path)
	if err != nil {
		t.Fatalf("LoadPool: %v", err)
	}
	if !seeded {
		t.Fatal("expected pool to be seeded")
	}
	if !slices.Equal(names, DefaultPool) {
		t.Fatalf("unexpected seeded names %v", names)
	}

	names, seeded, err = LoadPool(path)
	if err != nil {
		t.Fatalf("second LoadPool: %v", err)
	}
	if seeded {
		t.Fatal("expected existing pool to be read, not reseeded")
	}
	if !slices.Equal(names, DefaultPool) {
		t.Fatalf("round trip mismatch: %v", names)
	}

	names[0] = "mutated"
	if DefaultPool[0] == "mutated" {
		t.Fatal("LoadPool must not alias DefaultPool")
	}
}

func TestLoadPoolReadsCustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generals.txt")
	if err := os.WriteFile(path, []byte("\ufeff赵云\n\n  诸葛亮 \n赵云\r\n黄忠\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	names, seeded, err := LoadPool(path)
	if err != nil {
		t.Fatalf("LoadPool: %v", err)
	}
	if seeded {
		t.Fatal("unexpected seed")
	}
	if want := []string{"赵云", "诸葛亮", "黄忠"}; !slices.Equal(names, want) {
		t.Fatalf("got %v want %v", names, want)
	}
}

func TestLoadPoolRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generals.txt")
	if err := os.WriteFile(path, []byte("\n  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadPool(path); err == nil {
		t.Fatal("expected error for empty pool")
	}
}
