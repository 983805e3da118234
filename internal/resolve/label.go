package resolve

import "strings"

// Separator joins faction and character in a label.
const Separator = " · "

const (
	// Unknown stands in for a faction or character that could not be read.
	Unknown = "unknown"
	// UnknownPlayer is returned when no usable player-name characters remain.
	// The space guarantees it never collides with a filtered name.
	UnknownPlayer = "unknown player"
	// Exception marks a general slot whose recognition failed outright.
	Exception = "exception"
)

// UnknownLabel pads short compositions.
var UnknownLabel = Label{Faction: Unknown, Character: Unknown}

// Label is a resolved general assignment.
type Label struct {
	Faction   string
	Character string
}

func (l Label) String() string {
	return l.Faction + Separator + l.Character
}

// ParseLabel splits a stored label. Text without a separator is treated as a
// bare character name with no faction.
func ParseLabel(s string) Label {
	faction, character, ok := strings.Cut(s, Separator)
	if !ok {
		return Label{Character: s}
	}
	return Label{Faction: faction, Character: character}
}

// CharacterOf returns the character part of a stored label.
func CharacterOf(s string) string {
	return ParseLabel(s).Character
}
