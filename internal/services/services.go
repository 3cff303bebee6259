package services

import (
	"context"
)

// Catalog defines the lookups offered by [Client]. Commands and the TUI depend on this
// interface so they can run against test doubles.
type Catalog interface {
	// Playlist fetches a playlist; when all is set every page of its tracks is merged in.
	Playlist(ctx context.Context, urlOrID string, all bool) (*SpotifyPlaylist, error)

	// Album fetches an album with a lazy track loader attached.
	Album(ctx context.Context, urlOrID string) (*SpotifyAlbum, error)

	// Track fetches a single track.
	Track(ctx context.Context, urlOrID string) (*SpotifyTrack, error)

	// Artist fetches an artist with a lazy album loader attached.
	Artist(ctx context.Context, urlOrID string) (*SpotifyArtist, error)
}

var _ Catalog = (*Client)(nil)
