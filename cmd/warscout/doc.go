// Command warscout watches battle reports on screen and records the teams of
// the players it sees.
//
// "warscout run" starts a monitoring session in the foreground. The other
// subcommands open the record store directly and must not be pointed at a
// database another session is writing heavily to, although SQLite's WAL mode
// tolerates it.
package main
