package resolve

import (
	"strings"
	"unicode/utf8"

	"warscout/internal/lexicon"
	"warscout/internal/textutil"
)

// DefaultCutoff is the minimum similarity for accepting a pool match.
const DefaultCutoff = 0.3

// Resolver maps normalized recognizer text to factions, characters, and
// player names. It copies its inputs and is safe for concurrent use.
type Resolver struct {
	tables    *lexicon.Tables
	factions  []lexicon.Faction
	pool      []string
	exact     map[string]struct{}
	cutoff    float64
	connector rune
}

// New builds a resolver over the given tables and general name pool.
// A non-positive cutoff selects DefaultCutoff.
func New(tables *lexicon.Tables, pool []string, cutoff float64) *Resolver {
	if tables == nil {
		tables = lexicon.Default()
	}
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	factions := make([]lexicon.Faction, len(tables.Factions))
	for i, f := range tables.Factions {
		factions[i] = lexicon.Faction{Name: f.Name, Aliases: append([]string(nil), f.Aliases...)}
	}
	r := &Resolver{
		tables:    tables,
		factions:  factions,
		pool:      append([]string(nil), pool...),
		exact:     make(map[string]struct{}, len(pool)),
		cutoff:    cutoff,
		connector: tables.ConnectorRune(),
	}
	for _, name := range r.pool {
		r.exact[name] = struct{}{}
	}
	return r
}

// Normalize applies the glyph corrections.
func (r *Resolver) Normalize(text string) string {
	return r.tables.Normalize(text)
}

// IsDetailPage reports whether normalized text contains a detail marker.
func (r *Resolver) IsDetailPage(text string) bool {
	return r.tables.HasDetailMarker(text)
}

// Pool returns a copy of the general name pool.
func (r *Resolver) Pool() []string {
	return append([]string(nil), r.pool...)
}

// Faction scans factions in declared order and returns the first whose alias
// occurs in text, along with text with every occurrence of that alias removed.
// Aliases within a faction are tried in declared order.
func (r *Resolver) Faction(text string) (faction, rest string) {
	for _, f := range r.factions {
		for _, alias := range f.Aliases {
			if strings.Contains(text, alias) {
				return f.Name, strings.ReplaceAll(text, alias, "")
			}
		}
	}
	return Unknown, text
}

// Character resolves the faction-stripped remainder against the pool.
func (r *Resolver) Character(rest string) string {
	name := textutil.KeepHan(rest)
	if name == "" {
		return Unknown
	}
	if _, ok := r.exact[name]; ok {
		return name
	}
	if best, _, ok := textutil.BestMatch(name, r.pool, r.cutoff); ok {
		return best
	}
	return name
}

// General resolves one normalized general slot.
func (r *Resolver) General(text string) Label {
	faction, rest := r.Faction(text)
	return Label{Faction: faction, Character: r.Character(rest)}
}

// Player filters normalized text down to the characters a player name may
// contain. Empty results yield UnknownPlayer.
func (r *Resolver) Player(text string) string {
	var name string
	if r.connector != utf8.RuneError {
		name = textutil.KeepNameRunes(text, r.connector)
	} else {
		name = textutil.KeepNameRunes(text)
	}
	if name == "" {
		return UnknownPlayer
	}
	return name
}
