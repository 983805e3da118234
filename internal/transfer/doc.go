// Package transfer reads and writes the CSV form of the record store.
//
// The header is player,is_trusted,first_seen,general_1,general_2,general_3,note.
// Files are UTF-8 by default and written with a byte order mark so
// spreadsheet applications detect the encoding; GB18030 is supported for
// files exchanged with older Windows tools. Reading tolerates short or
// malformed rows by skipping them and counting the skip.
package transfer
