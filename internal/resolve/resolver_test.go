package resolve

import (
	"sync"
	"testing"

	"warscout/internal/lexicon"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	return New(lexicon.Default(), lexicon.DefaultPool, DefaultCutoff)
}

func TestGeneralResolvesFactionAndCharacter(t *testing.T) {
	r := newTestResolver(t)
	tests := []struct {
		name string
		text string
		want Label
	}{
		{"declared alias", "误大乔", Label{"吴", "大乔"}},
		{"canonical glyph", "魏夏侯惇", Label{"魏", "夏侯惇"}},
		{"fuzzy character", "汉关", Label{"汉", "关羽"}},
		{"no faction", "曹操", Label{Unknown, "曹操"}},
		{"unmatched character kept", "蜀黄忠", Label{"蜀", "黄忠"}},
		{"nothing left", "群!!", Label{"群", Unknown}},
		{"empty", "", Label{Unknown, Unknown}},
		{"non ideographs dropped", "晋 Li Ru 李儒 9", Label{"晋", "李儒"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.General(tt.text)
			if got != tt.want {
				t.Fatalf("General(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFactionScanOrderIsDeclared(t *testing.T) {
	r := newTestResolver(t)
	// 魏 is declared before 蜀, so the 魏 inside 魏延 is taken as the faction.
	faction, rest := r.Faction("蜀魏延")
	if faction != "魏" || rest != "蜀延" {
		t.Fatalf("Faction = %q, %q", faction, rest)
	}
	// Every occurrence of the matched alias is removed.
	faction, rest = r.Faction("吴吴大乔吴")
	if faction != "吴" || rest != "大乔" {
		t.Fatalf("Faction = %q, %q", faction, rest)
	}
}

func TestGeneralWithNormalization(t *testing.T) {
	r := newTestResolver(t)
	got := r.General(r.Normalize("误吕藜"))
	if got != (Label{"吴", "吕蒙"}) {
		t.Fatalf("unexpected label %+v", got)
	}
	if got.String() != "吴 · 吕蒙" {
		t.Fatalf("unexpected label text %q", got.String())
	}
}

func TestPlayer(t *testing.T) {
	r := newTestResolver(t)
	tests := []struct {
		in   string
		want string
	}{
		{"赵云丨子龙", "赵云丨子龙"},
		{" 风起 云涌 ", "风起云涌"},
		{"Ace_99!", "Ace99"},
		{"!!  --", UnknownPlayer},
		{"", UnknownPlayer},
		{r.Normalize("天下l无双"), "天下丨无双"},
	}
	for _, tt := range tests {
		if got := r.Player(tt.in); got != tt.want {
			t.Errorf("Player(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolverCopiesPool(t *testing.T) {
	pool := []string{"吕布", "吕蒙"}
	r := New(lexicon.Default(), pool, 0)
	pool[0] = "曹操"
	if got := r.Character("吕布"); got != "吕布" {
		t.Fatalf("resolver observed caller mutation: %q", got)
	}
	out := r.Pool()
	out[1] = "x"
	if r.Pool()[1] != "吕蒙" {
		t.Fatal("Pool must return a copy")
	}
}

func TestResolverConcurrentUse(t *testing.T) {
	r := newTestResolver(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := r.General("魏荀或"); got.Faction != "魏" {
					t.Errorf("unexpected faction %q", got.Faction)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestParseLabel(t *testing.T) {
	if got := ParseLabel("吴 · 大乔"); got != (Label{"吴", "大乔"}) {
		t.Fatalf("ParseLabel = %+v", got)
	}
	if got := CharacterOf("大乔"); got != "大乔" {
		t.Fatalf("CharacterOf bare = %q", got)
	}
	if got := UnknownLabel.String(); got != "unknown · unknown" {
		t.Fatalf("UnknownLabel = %q", got)
	}
}
