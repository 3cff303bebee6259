// Package ui implements an interactive catalog browser using bubbletea's Elm architecture.
//
// The browser walks the lazy loaders attached by the catalog client:
//  1. [AlbumListView] : an artist's albums, loaded through the artist's album loader
//  2. [TrackListView] : an album's tracks, loaded through the album's track loader
//
// Starting from an album skips straight to [TrackListView]. Loads run as [tea.Cmd]s and report
// back through the Msg union type, so the view never blocks on the network.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
