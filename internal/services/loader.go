package services

import (
	"context"
	"fmt"
)

// Loader fetches a sub-collection on demand: every page when all is set, otherwise only the first.
type Loader[T any] interface {
	Load(ctx context.Context, all bool) ([]T, error)
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc[T any] func(ctx context.Context, all bool) ([]T, error)

func (f LoaderFunc[T]) Load(ctx context.Context, all bool) ([]T, error) {
	return f(ctx, all)
}

// PageLoader is a [Loader] over a paginated endpoint of a [Client], bound to its parent's id.
type PageLoader[T any] struct {
	client   *Client
	parentID string
	url      string
	attach   func(*T)
}

// ParentID returns the id of the entity the loader belongs to.
func (l *PageLoader[T]) ParentID() string { return l.parentID }

// URL returns the first page requested by Load.
func (l *PageLoader[T]) URL() string { return l.url }

// Load makes sure the credential is fresh, then fetches the collection.
func (l *PageLoader[T]) Load(ctx context.Context, all bool) ([]T, error) {
	if err := l.client.tokens.EnsureValid(ctx); err != nil {
		return nil, err
	}

	items, err := fetchPages[T](ctx, l.client, l.url, all)
	if err != nil {
		return nil, err
	}

	if l.attach != nil {
		for i := range items {
			l.attach(&items[i])
		}
	}
	return items, nil
}

// trackLoader loads the tracks of album albumID.
func (c *Client) trackLoader(albumID string) *PageLoader[SpotifyTrack] {
	return &PageLoader[SpotifyTrack]{
		client:   c,
		parentID: albumID,
		url:      fmt.Sprintf("%s%s/tracks?limit=%d", c.albumURL, albumID, subCollectionLimit),
	}
}

// albumLoader loads the albums of artist artistID, attaching a track loader to each.
func (c *Client) albumLoader(artistID string) *PageLoader[SpotifyAlbum] {
	return &PageLoader[SpotifyAlbum]{
		client:   c,
		parentID: artistID,
		url:      fmt.Sprintf("%s%s/albums?limit=%d", c.artistURL, artistID, subCollectionLimit),
		attach: func(album *SpotifyAlbum) {
			album.Tracks = c.trackLoader(album.ID)
		},
	}
}
