// Package sqlite provides a SQLite-backed implementation of driven.KeyValueStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. All revlink state (credentials, the
// pending OAuth state, webhooks and deliveries) is stored as JSON strings in a
// single key/value table; the key layout is defined by the kv package.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.revlink/data/revlink.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
