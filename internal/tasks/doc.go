// Package tasks runs multi-request catalog operations with real-time progress reporting.
//
// # Core Operations
//
// [CatalogEngine] offers two operations on top of a [services.Catalog]:
//
//  1. [CatalogEngine.Discography] : artist → albums → tracks
//     - Fetches the artist and loads its albums through the album loader
//     - Loads each album's tracks through its track loader, one album at a time
//     - A failing album is recorded in the result and the walk continues
//
//  2. [CatalogEngine.Export] : playlist or album → [models.Collection]
//     - Fetches the entity and, for albums, loads the track list
//     - Flattens the result for the formatter package
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends use select with default so a
// slow or absent reader never blocks the operation.
package tasks
