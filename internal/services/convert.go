package services

import (
	"strings"

	"github.com/desertthunder/spotx/internal/models"
)

// TrackModel flattens t. albumName is used when the track carries no album of its own.
func TrackModel(t SpotifyTrack, albumName string, position int) models.Track {
	track := models.Track{
		ID:       t.ID,
		Title:    t.Name,
		Artist:   artistNames(t.Artists),
		Album:    albumName,
		Duration: t.DurationMS / 1000,
		ISRC:     t.ExternalIDs.ISRC,
		Position: position,
	}
	if t.Album != nil && t.Album.Name != "" {
		track.Album = t.Album.Name
	}
	return track
}

// PlaylistCollection converts a playlist and whatever pages of tracks it holds.
// Unavailable items (null track) are skipped.
func PlaylistCollection(p *SpotifyPlaylist) *models.Collection {
	c := &models.Collection{
		ID:          p.ID,
		Kind:        KindPlaylist.String(),
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.Owner.DisplayName,
		ImageURL:    firstImage(p.Images),
		Public:      p.Public != nil && *p.Public,
	}

	for _, item := range p.Tracks.Items {
		if item.Track == nil {
			continue
		}
		c.Tracks = append(c.Tracks, TrackModel(*item.Track, "", len(c.Tracks)+1))
	}
	return c
}

// AlbumCollection converts an album and its loaded tracks.
func AlbumCollection(a *SpotifyAlbum, tracks []SpotifyTrack) *models.Collection {
	c := &models.Collection{
		ID:       a.ID,
		Kind:     KindAlbum.String(),
		Name:     a.Name,
		Owner:    artistNames(a.Artists),
		ImageURL: firstImage(a.Images),
		Public:   true,
	}
	if a.ReleaseDate != "" {
		c.Description = "Released " + a.ReleaseDate
	}

	for i, t := range tracks {
		c.Tracks = append(c.Tracks, TrackModel(t, a.Name, i+1))
	}
	return c
}

func artistNames(artists []SpotifyArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func firstImage(images []SpotifyImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
