package lexicon

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
)

//go:embed tables.toml
var defaultTables []byte

// Correction maps one misread glyph to its canonical glyph.
type Correction struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Faction is a canonical faction with the glyphs the recognizer emits for it.
type Faction struct {
	Name    string   `toml:"name"`
	Aliases []string `toml:"aliases"`
}

// Tables is the versioned lookup data driving normalization and resolution.
// A loaded Tables value is read-only.
type Tables struct {
	Version       int          `toml:"version"`
	Connector     string       `toml:"connector"`
	DetailMarkers []string     `toml:"detail_markers"`
	Corrections   []Correction `toml:"corrections"`
	Factions      []Faction    `toml:"factions"`

	replacer *strings.Replacer
}

// Default returns the tables compiled into the binary.
func Default() *Tables {
	t, err := Parse(defaultTables)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon tables are invalid: %v", err))
	}
	return t
}

// Load reads tables from path. An empty path selects the embedded tables.
func Load(path string) (*Tables, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a TOML table document.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&t); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	pairs := make([]string, 0, len(t.Corrections)*2)
	for _, c := range t.Corrections {
		pairs = append(pairs, c.From, c.To)
	}
	t.replacer = strings.NewReplacer(pairs...)
	return &t, nil
}

// Validate checks the invariants that make Normalize order-independent:
// every correction is rune-to-rune, sources are unique, and no target is
// itself a source.
func (t *Tables) Validate() error {
	if t.Version <= 0 {
		return errors.New("tables: version must be positive")
	}
	if t.Connector != "" && utf8.RuneCountInString(t.Connector) != 1 {
		return fmt.Errorf("tables: connector %q must be a single character", t.Connector)
	}
	sources := make(map[string]struct{}, len(t.Corrections))
	for i, c := range t.Corrections {
		if utf8.RuneCountInString(c.From) != 1 || utf8.RuneCountInString(c.To) != 1 {
			return fmt.Errorf("tables: corrections[%d] %q -> %q must map one character to one character", i, c.From, c.To)
		}
		if c.From == c.To {
			return fmt.Errorf("tables: corrections[%d] maps %q to itself", i, c.From)
		}
		if _, dup := sources[c.From]; dup {
			return fmt.Errorf("tables: corrections[%d] repeats source %q", i, c.From)
		}
		sources[c.From] = struct{}{}
	}
	for i, c := range t.Corrections {
		if _, chained := sources[c.To]; chained {
			return fmt.Errorf("tables: corrections[%d] target %q is also a correction source", i, c.To)
		}
	}
	if len(t.Factions) == 0 {
		return errors.New("tables: at least one faction is required")
	}
	names := make(map[string]struct{}, len(t.Factions))
	for i, f := range t.Factions {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("tables: factions[%d] has no name", i)
		}
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("tables: faction %q declared twice", f.Name)
		}
		names[f.Name] = struct{}{}
		if len(f.Aliases) == 0 {
			return fmt.Errorf("tables: faction %q has no aliases", f.Name)
		}
		for _, a := range f.Aliases {
			if a == "" {
				return fmt.Errorf("tables: faction %q has an empty alias", f.Name)
			}
		}
	}
	for _, m := range t.DetailMarkers {
		if strings.TrimSpace(m) == "" {
			return errors.New("tables: detail_markers contains an empty entry")
		}
	}
	return nil
}

// Normalize applies every correction to s in a single pass.
func (t *Tables) Normalize(s string) string {
	if t.replacer == nil || s == "" {
		return s
	}
	return t.replacer.Replace(s)
}

// HasDetailMarker reports whether text contains any detail marker.
func (t *Tables) HasDetailMarker(text string) bool {
	for _, m := range t.DetailMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// ConnectorRune returns the connector glyph, or utf8.RuneError when unset.
func (t *Tables) ConnectorRune() rune {
	if t.Connector == "" {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(t.Connector)
	return r
}
