// Package resolve turns normalized recognizer text into game entities.
//
// Faction lookup is a first-match scan over the faction table in declared
// order. Character lookup keeps only ideographs and picks the closest pool
// entry above a similarity floor, falling back to the raw remainder so new
// generals are still recorded. Player names keep ideographs, letters, digits,
// and the clan connector glyph.
package resolve
