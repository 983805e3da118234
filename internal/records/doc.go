// Package records persists observed players, their team compositions, and
// the trust list in SQLite.
//
// Team records are content addressed: the primary key is an MD5 hash of the
// player name and the three character names, so saving the same observation
// twice writes one row. Faction labels and notes are excluded from the hash
// and may be edited without changing the key. Renaming a player moves its
// records inside one transaction; hashes are not recomputed.
//
// Schema changes bump schemaVersion in schema.go. Opening a database written
// with another version fails with ErrSchemaMismatch; export with the old
// build and import into a fresh database to migrate.
package records
