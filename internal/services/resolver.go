package services

import (
	"regexp"
	"strings"

	"github.com/desertthunder/spotx/internal/shared"
)

// Kind is the type of catalog entity a reference points at.
type Kind int

const (
	KindPlaylist Kind = iota
	KindAlbum
	KindTrack
	KindArtist
)

var (
	PlaylistPattern = regexp.MustCompile(`^https://open\.spotify\.com/playlist/.+$`)
	AlbumPattern    = regexp.MustCompile(`^https://open\.spotify\.com/album/.+$`)
	TrackPattern    = regexp.MustCompile(`^https://open\.spotify\.com/track/.+$`)
	ArtistPattern   = regexp.MustCompile(`^https://open\.spotify\.com/artist/.+$`)

	idPattern = regexp.MustCompile(`^[\w\d]+$`)
)

func (k Kind) String() string {
	switch k {
	case KindPlaylist:
		return "playlist"
	case KindAlbum:
		return "album"
	case KindTrack:
		return "track"
	case KindArtist:
		return "artist"
	default:
		return "unknown"
	}
}

// Pattern returns the share URL pattern for k.
func (k Kind) Pattern() *regexp.Regexp {
	switch k {
	case KindPlaylist:
		return PlaylistPattern
	case KindAlbum:
		return AlbumPattern
	case KindTrack:
		return TrackPattern
	case KindArtist:
		return ArtistPattern
	default:
		return nil
	}
}

// ResolveID extracts the id from a share URL of the given kind, or returns input itself when it
// is already a bare id.
func ResolveID(input string, kind Kind) (string, error) {
	pattern := kind.Pattern()
	if pattern == nil {
		return "", shared.ErrInvalidReference
	}
	return resolve(input, pattern)
}

func resolve(input string, pattern *regexp.Regexp) (string, error) {
	if input == "" {
		return "", shared.ErrInvalidReference
	}

	if !pattern.MatchString(input) {
		if idPattern.MatchString(input) {
			return input, nil
		}
		return "", shared.ErrInvalidReference
	}

	ref := strings.TrimSuffix(input, "/")
	start := strings.LastIndex(ref, "/") + 1
	id := ref[start:]
	if q := strings.IndexByte(ref, '?'); q >= 0 {
		if q < start {
			// the query string contains a slash
			return "", shared.ErrInvalidReference
		}
		id = ref[start:q]
	}

	if !idPattern.MatchString(id) {
		return "", shared.ErrInvalidReference
	}
	return id, nil
}
