// Package repositories implements SQLite persistence for stored access tokens.
//
// Repositories handle CRUD operations with atomic sequence generation for human-readable ordering.
// Deletes are soft (deleted_at timestamp) and deleted records are excluded from queries by default.
//
// Key Implementations:
//   - [TokenRepository] : access tokens kept between runs so a fresh token is not fetched on every start
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
