package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
)

var (
	_ list.Item = albumItem{}
	_ list.Item = trackItem{}
)

// albumItem wraps [services.SpotifyAlbum] to implement [list.Item].
type albumItem struct {
	album services.SpotifyAlbum
}

func (i albumItem) FilterValue() string { return i.album.Name }
func (i albumItem) Title() string       { return i.album.Name }
func (i albumItem) Description() string {
	parts := []string{}
	if i.album.ReleaseDate != "" {
		parts = append(parts, i.album.ReleaseDate)
	}
	if kind := i.album.AlbumGroup; kind != "" {
		parts = append(parts, kind)
	} else if i.album.AlbumType != "" {
		parts = append(parts, i.album.AlbumType)
	}
	if i.album.TotalTracks > 0 {
		parts = append(parts, fmt.Sprintf("%d tracks", i.album.TotalTracks))
	}
	return strings.Join(parts, " • ")
}

// trackItem wraps [services.SpotifyTrack] to implement [list.Item].
type trackItem struct {
	track services.SpotifyTrack
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string {
	if i.track.TrackNumber > 0 {
		return fmt.Sprintf("%d. %s", i.track.TrackNumber, i.track.Name)
	}
	return i.track.Name
}
func (i trackItem) Description() string {
	names := make([]string, 0, len(i.track.Artists))
	for _, a := range i.track.Artists {
		names = append(names, a.Name)
	}
	desc := strings.Join(names, ", ")
	if d := i.track.DurationMS / 1000; d > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(d))
	}
	return desc
}
