package tasks

import (
	"fmt"

	"github.com/desertthunder/spotx/internal/services"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchArtist Phase = iota
	FetchAlbums
	FetchTracks
	FetchCollection
	Convert
	Done
)

func (p Phase) String() string {
	switch p {
	case FetchArtist:
		return "fetch_artist"
	case FetchAlbums:
		return "fetch_albums"
	case FetchTracks:
		return "fetch_tracks"
	case FetchCollection:
		return "fetch_collection"
	case Convert:
		return "convert"
	case Done:
		return "done"
	default:
		return ""
	}
}

func fetchArtistUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchArtist,
		Step:    step,
		Total:   total,
		Message: "Fetching artist...",
	}
}

func fetchAlbumsUpdate(step, total int, artist *services.SpotifyArtist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAlbums,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loading albums for %s...", artist.Name),
		Data:    artist,
	}
}

func fetchTracksUpdate(step, total int, album *services.SpotifyAlbum) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Loading tracks for '%s'", album.Name),
		Data:    album,
	}
}

func fetchCollectionUpdate(kind services.Kind, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCollection,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s...", kind),
	}
}

func convertUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Convert,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Converting '%s'", name),
	}
}

func discographyDoneUpdate(result *DiscographyResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d tracks from %d albums (%d failed)", result.TrackCount, len(result.Albums), result.FailedCount),
		Data:    result,
	}
}
