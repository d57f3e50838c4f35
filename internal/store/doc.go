// Package store provides durable SQLite storage for documents, tokens,
// artifacts and the shared artifact template cache.
//
// The database is opened with WAL mode and a single writer connection;
// reads during writes are fine, concurrent writers queue on the busy
// timeout. All multi-row mutations that must be atomic (document
// reconciliation in particular) run inside one transaction.
package store
