// Package sqlite provides the SQLite-based ChunkStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The schema is a public contract shared with the retrieval service and the
// mobile app that bundle the database file:
//
//	chunks(id INTEGER PRIMARY KEY AUTOINCREMENT, book TEXT,
//	       start_page INTEGER, end_page INTEGER, text TEXT)
//	embeddings(chunk_id INTEGER PRIMARY KEY, embedding BLOB)
//
// It is applied through versioned migrations embedded from the migrations/
// directory. The applied version is tracked in PRAGMA user_version so no
// bookkeeping table is added to the file.
//
// # Embeddings
//
// Vectors are stored as little-endian IEEE 754 float32 sequences with no
// length prefix. A missing row and a NULL payload both mean "not embedded".
//
// # Transactions
//
// Writes go through WithBatch, which wraps one transaction and one prepared
// insert statement. The pool is limited to a single connection: the store is
// owned by exactly one writer for the duration of a run.
package sqlite
