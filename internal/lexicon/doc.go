// Package lexicon owns the reference data the recognizer output is checked
// against: glyph corrections, faction aliases, detail-page markers, and the
// pool of canonical general names.
//
// Tables are versioned TOML. The embedded copy is the default; a file named by
// paths.tables replaces it wholesale. Normalize is a pure single-pass rewrite
// and is idempotent for any table that passes Validate.
package lexicon
