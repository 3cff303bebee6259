package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotx/internal/services"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgArtistFetched MsgKind = iota
	MsgAlbumFetched
	MsgAlbumsLoaded
	MsgTracksLoaded
)

type artistFetched struct {
	artist *services.SpotifyArtist
	err    error
}

type albumFetched struct {
	album *services.SpotifyAlbum
	err   error
}

type albumsLoaded struct {
	albums []services.SpotifyAlbum
	err    error
}

type tracksLoaded struct {
	album  services.SpotifyAlbum
	tracks []services.SpotifyTrack
	err    error
}

// artistFetchedMsg is the constructor for [MsgArtistFetched]
func artistFetchedMsg(artist *services.SpotifyArtist, err error) Msg {
	return Msg{kind: MsgArtistFetched, data: artistFetched{artist, err}}
}

// albumFetchedMsg is the constructor for [MsgAlbumFetched]
func albumFetchedMsg(album *services.SpotifyAlbum, err error) Msg {
	return Msg{kind: MsgAlbumFetched, data: albumFetched{album, err}}
}

// albumsLoadedMsg is the constructor for [MsgAlbumsLoaded]
func albumsLoadedMsg(albums []services.SpotifyAlbum, err error) Msg {
	return Msg{kind: MsgAlbumsLoaded, data: albumsLoaded{albums, err}}
}

// tracksLoadedMsg is the constructor for [MsgTracksLoaded]
func tracksLoadedMsg(album services.SpotifyAlbum, tracks []services.SpotifyTrack, err error) Msg {
	return Msg{kind: MsgTracksLoaded, data: tracksLoaded{album, tracks, err}}
}
