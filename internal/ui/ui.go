package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	AlbumListView
	TrackListView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	catalog   services.Catalog
	kind      services.Kind
	ref       string
	all       bool
	view      ViewState
	artist    *services.SpotifyArtist
	album     *services.SpotifyAlbum
	albumList list.Model
	trackList list.Model
	status    string
	err       error
	width     int
	height    int
	help      help.Model
	keys      keyMap
}

// NewModel creates a browser starting at the artist or album ref. all controls whether loaders
// fetch every page or only the first; it can be toggled while browsing.
func NewModel(ctx context.Context, catalog services.Catalog, kind services.Kind, ref string, all bool) (*Model, error) {
	if kind != services.KindArtist && kind != services.KindAlbum {
		return nil, fmt.Errorf("%w: cannot browse a %s", shared.ErrInvalidArgument, kind)
	}

	return &Model{
		ctx:       ctx,
		catalog:   catalog,
		kind:      kind,
		ref:       ref,
		all:       all,
		view:      LoadingView,
		albumList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		trackList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		status:    fmt.Sprintf("Fetching %s...", kind),
		help:      help.New(),
		keys:      newKeyMap(),
	}, nil
}

// Init fetches the starting entity.
func (m *Model) Init() tea.Cmd {
	if m.kind == services.KindAlbum {
		return m.fetchAlbum()
	}
	return m.fetchArtist()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.albumList.SetSize(msg.Width-4, msg.Height-8)
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgArtistFetched:
		data := msg.data.(artistFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.artist = data.artist
		return m, m.loadAlbums()

	case MsgAlbumFetched:
		data := msg.data.(albumFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		return m, m.loadTracks(*data.album)

	case MsgAlbumsLoaded:
		data := msg.data.(albumsLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.albums))
		for i, a := range data.albums {
			items[i] = albumItem{album: a}
		}
		cmd := m.albumList.SetItems(items)
		m.albumList.Title = fmt.Sprintf("Albums by %s", m.artist.Name)
		m.view = AlbumListView
		return m, cmd

	case MsgTracksLoaded:
		data := msg.data.(tracksLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		album := data.album
		m.album = &album
		items := make([]list.Item, len(data.tracks))
		for i, t := range data.tracks {
			items[i] = trackItem{track: t}
		}
		cmd := m.trackList.SetItems(items)
		m.trackList.Title = fmt.Sprintf("Tracks on '%s'", album.Name)
		m.view = TrackListView
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) && !m.filtering() {
		return m, tea.Quit
	}

	if m.err != nil {
		if key.Matches(msg, m.keys.back) {
			m.err = nil
			if m.view == LoadingView {
				return m, tea.Quit
			}
		}
		return m, nil
	}

	if m.view == LoadingView || m.filtering() {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.enter) && m.view == AlbumListView:
		if selected, ok := m.albumList.SelectedItem().(albumItem); ok {
			return m, m.loadTracks(selected.album)
		}
		return m, nil

	case key.Matches(msg, m.keys.back) && m.view == TrackListView:
		if m.artist != nil {
			m.view = AlbumListView
		}
		return m, nil

	case key.Matches(msg, m.keys.all):
		m.all = !m.all
		return m, m.reload()

	case key.Matches(msg, m.keys.reload):
		return m, m.reload()
	}

	return m.updateLists(msg)
}

// reload runs the loader behind the current view again.
func (m *Model) reload() tea.Cmd {
	switch m.view {
	case AlbumListView:
		return m.loadAlbums()
	case TrackListView:
		if m.album != nil {
			return m.loadTracks(*m.album)
		}
	}
	return nil
}

func (m *Model) filtering() bool {
	switch m.view {
	case AlbumListView:
		return m.albumList.FilterState() == list.Filtering
	case TrackListView:
		return m.trackList.FilterState() == list.Filtering
	}
	return false
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case AlbumListView:
		m.albumList, cmd = m.albumList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchArtist() tea.Cmd {
	ctx, catalog, ref := m.ctx, m.catalog, m.ref
	return func() tea.Msg {
		return artistFetchedMsg(catalog.Artist(ctx, ref))
	}
}

func (m *Model) fetchAlbum() tea.Cmd {
	ctx, catalog, ref := m.ctx, m.catalog, m.ref
	return func() tea.Msg {
		return albumFetchedMsg(catalog.Album(ctx, ref))
	}
}

func (m *Model) loadAlbums() tea.Cmd {
	m.status = fmt.Sprintf("Loading albums for %s...", m.artist.Name)
	ctx, loader, all := m.ctx, m.artist.Albums, m.all
	return func() tea.Msg {
		if loader == nil {
			return albumsLoadedMsg(nil, fmt.Errorf("%w: no album loader", shared.ErrServiceUnavailable))
		}
		return albumsLoadedMsg(loader.Load(ctx, all))
	}
}

func (m *Model) loadTracks(album services.SpotifyAlbum) tea.Cmd {
	m.status = fmt.Sprintf("Loading tracks for '%s'...", album.Name)
	ctx, all := m.ctx, m.all
	return func() tea.Msg {
		if album.Tracks == nil {
			return tracksLoadedMsg(album, nil, fmt.Errorf("%w: no track loader", shared.ErrServiceUnavailable))
		}
		tracks, err := album.Tracks.Load(ctx, all)
		return tracksLoadedMsg(album, tracks, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" +
			m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	}

	switch m.view {
	case AlbumListView:
		return m.renderAlbumList()
	case TrackListView:
		return m.renderTrackList()
	default:
		return styles.title.Render(m.status)
	}
}

func (m *Model) pagesLabel() string {
	if m.all {
		return styles.ok.Render("all pages")
	}
	return styles.warn.Render("first page only")
}

func (m *Model) renderAlbumList() string {
	var header strings.Builder
	header.WriteString(styles.title.Render(m.artist.Name))
	if len(m.artist.Genres) > 0 {
		header.WriteString("\n" + styles.help.Render(strings.Join(m.artist.Genres, ", ")))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.all, m.keys.reload, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", header.String(), m.pagesLabel(), m.albumList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.all, m.keys.reload, m.keys.quit}
	if m.artist != nil {
		helpKeys = append([]key.Binding{m.keys.back}, helpKeys...)
	}

	summary := ""
	if m.album != nil {
		parts := []string{}
		if m.album.ReleaseDate != "" {
			parts = append(parts, m.album.ReleaseDate)
		}
		if m.album.Label != "" {
			parts = append(parts, m.album.Label)
		}
		summary = styles.help.Render(strings.Join(parts, " • "))
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", summary, m.pagesLabel(), m.trackList.View(), m.help.ShortHelpView(helpKeys))
}
