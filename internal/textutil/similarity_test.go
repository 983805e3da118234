package textutil

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "赵云子龙", "赵云子龙", 1},
		{"both empty", "", "", 1},
		{"one empty", "赵云", "", 0},
		{"one misread of four", "赵云子龙", "赵云子虎", 0.75},
		{"disjoint", "孙权", "曹操", 0},
		{"ascii", "abcd", "abce", 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioCountsRunesNotBytes(t *testing.T) {
	// Each ideograph is three bytes in UTF-8; a byte-level ratio would be 5/6.
	got := Ratio("吕布", "吕蒙")
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestBestMatch(t *testing.T) {
	pool := []string{"吕布", "吕蒙", "荀彧", "荀攸", "夏侯惇", "夏侯霸"}

	best, score, ok := BestMatch("夏侯", pool, 0.3)
	if !ok || best != "夏侯惇" {
		t.Fatalf("expected first of tied candidates, got %q (%v, %v)", best, score, ok)
	}

	best, _, ok = BestMatch("荀彧", pool, 0.3)
	if !ok || best != "荀彧" {
		t.Fatalf("expected exact match, got %q", best)
	}

	if _, _, ok := BestMatch("曹操", pool, 0.3); ok {
		t.Fatal("expected no match below cutoff")
	}
	if _, _, ok := BestMatch("", pool, 0); ok {
		t.Fatal("expected no match for empty word")
	}
}

func TestFilters(t *testing.T) {
	if got := KeepHan("魏 曹操!abc12"); got != "魏曹操" {
		t.Fatalf("KeepHan = %q", got)
	}
	if got := KeepNameRunes("赵云丨子龙 #Ab_9"); got != "赵云丨子龙Ab9" {
		t.Fatalf("KeepNameRunes = %q", got)
	}
	if got := KeepNameRunes("a-b", '-'); got != "a-b" {
		t.Fatalf("KeepNameRunes extra = %q", got)
	}
	if got := FoldWidth("ＡＢ１２"); got != "AB12" {
		t.Fatalf("FoldWidth = %q", got)
	}
}
