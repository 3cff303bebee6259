// package tasks implements catalog walks that span several requests.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
)

// AlbumResult holds one album of a discography and its tracks, or the error that stopped them loading.
type AlbumResult struct {
	Album  services.SpotifyAlbum
	Tracks []services.SpotifyTrack
	Error  error
}

// DiscographyResult contains everything loaded for an artist.
type DiscographyResult struct {
	Artist      *services.SpotifyArtist
	Albums      []AlbumResult
	TrackCount  int // Tracks loaded across all albums
	FailedCount int // Albums whose tracks could not be loaded
}

// Collections converts every album that loaded into a [models.Collection].
func (r *DiscographyResult) Collections() []*models.Collection {
	out := make([]*models.Collection, 0, len(r.Albums))
	for _, a := range r.Albums {
		if a.Error != nil {
			continue
		}
		out = append(out, services.AlbumCollection(&a.Album, a.Tracks))
	}
	return out
}

// Engine defines the multi-request operations.
type Engine interface {
	// Discography fetches an artist, its albums and every album's tracks.
	Discography(ctx context.Context, artistRef string, all bool, progress chan<- ProgressUpdate) (*DiscographyResult, error)

	// Export fetches a playlist or album and flattens it into a collection.
	Export(ctx context.Context, kind services.Kind, ref string, all bool, progress chan<- ProgressUpdate) (*models.Collection, error)
}

// CatalogEngine implements [Engine] over a [services.Catalog].
type CatalogEngine struct {
	catalog services.Catalog
}

var _ Engine = (*CatalogEngine)(nil)

// NewCatalogEngine creates a CatalogEngine reading from catalog.
func NewCatalogEngine(catalog services.Catalog) *CatalogEngine {
	return &CatalogEngine{catalog: catalog}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Discography walks artist → albums → tracks. all is passed to every loader.
//
// Failing to fetch the artist or its album list aborts the walk; a failing album track list
// is recorded on its [AlbumResult] and the walk continues.
func (e *CatalogEngine) Discography(ctx context.Context, artistRef string, all bool, progress chan<- ProgressUpdate) (*DiscographyResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchArtistUpdate(1, 1))

	artist, err := e.catalog.Artist(ctx, artistRef)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artist: %w", err)
	}
	if artist.Albums == nil {
		return nil, fmt.Errorf("%w: artist %s has no album loader", shared.ErrServiceUnavailable, artist.ID)
	}

	e.sendProgress(progress, fetchAlbumsUpdate(1, 1, artist))

	albums, err := artist.Albums.Load(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to load albums: %w", err)
	}

	result := &DiscographyResult{Artist: artist, Albums: make([]AlbumResult, len(albums))}
	total := len(albums)

	for i, album := range albums {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, fetchTracksUpdate(i+1, total, &album))

		r := AlbumResult{Album: album}
		if album.Tracks == nil {
			r.Error = fmt.Errorf("%w: album %s has no track loader", shared.ErrServiceUnavailable, album.ID)
		} else {
			r.Tracks, r.Error = album.Tracks.Load(ctx, all)
		}

		if r.Error != nil {
			result.FailedCount++
		} else {
			result.TrackCount += len(r.Tracks)
		}
		result.Albums[i] = r
	}

	e.sendProgress(progress, discographyDoneUpdate(result))
	return result, nil
}

// Export fetches a playlist or album as a collection. all controls pagination of the track list.
func (e *CatalogEngine) Export(ctx context.Context, kind services.Kind, ref string, all bool, progress chan<- ProgressUpdate) (*models.Collection, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	switch kind {
	case services.KindPlaylist:
		e.sendProgress(progress, fetchCollectionUpdate(kind, 1, 2))

		playlist, err := e.catalog.Playlist(ctx, ref, all)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlist: %w", err)
		}

		e.sendProgress(progress, convertUpdate(2, 2, playlist.Name))
		return services.PlaylistCollection(playlist), nil
	case services.KindAlbum:
		e.sendProgress(progress, fetchCollectionUpdate(kind, 1, 3))

		album, err := e.catalog.Album(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch album: %w", err)
		}

		e.sendProgress(progress, fetchTracksUpdate(2, 3, album))

		var tracks []services.SpotifyTrack
		if album.Tracks != nil {
			if tracks, err = album.Tracks.Load(ctx, all); err != nil {
				return nil, fmt.Errorf("failed to load album tracks: %w", err)
			}
		}

		e.sendProgress(progress, convertUpdate(3, 3, album.Name))
		return services.AlbumCollection(album, tracks), nil
	default:
		return nil, fmt.Errorf("%w: cannot export a %s", shared.ErrInvalidArgument, kind)
	}
}
