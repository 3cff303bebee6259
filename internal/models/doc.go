// Package models defines transport-neutral entities for the spotx catalog client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): flattened views used for rendering and export
//   - [Track] : Song metadata with ISRC
//   - [Collection] : A named, ordered list of tracks (playlist, album or discography)
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [StoredToken] : An access token handed out by the token endpoint, with its expiry
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps and validation.
// The [Repository] interface defines standard CRUD operations for database access.
package models
