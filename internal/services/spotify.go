// Spotify catalog API implementation of [Catalog]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/shared"
	"golang.org/x/oauth2"
)

const (
	DefaultTokenURL    = "https://open.spotify.com/get_access_token?reason=transport&productType=web_player"
	DefaultTrackURL    = "https://api.spotify.com/v1/tracks/"
	DefaultPlaylistURL = "https://api.spotify.com/v1/playlists/"
	DefaultAlbumURL    = "https://api.spotify.com/v1/albums/"
	DefaultArtistURL   = "https://api.spotify.com/v1/artists/"

	// page size requested for album tracks and artist albums
	subCollectionLimit = 50
)

// SpotifyImage represents an image resource. Dimensions are null for some user uploads.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height *int   `json:"height"`
	Width  *int   `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

type followers struct {
	Href  *string `json:"href"`
	Total int     `json:"total"`
}

// SpotifySharingInfo is attached to playlists and playlist items by the web player API.
type SpotifySharingInfo struct {
	ShareID  string `json:"share_id"`
	ShareURL string `json:"share_url"`
	URI      string `json:"uri"`
}

// SpotifyUser is the public profile referenced by playlist owners and contributors.
type SpotifyUser struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"display_name,omitempty"`
	ExternalURLs externalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
//
// Albums is only set on artists returned by [Client.Artist].
type SpotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	ExternalURLs externalURLs   `json:"external_urls"`
	Followers    *followers     `json:"followers,omitempty"`
	Genres       []string       `json:"genres,omitempty"`
	Images       []SpotifyImage `json:"images,omitempty"`
	Popularity   int            `json:"popularity,omitempty"`
	Href         string         `json:"href"`
	Type         string         `json:"type"`
	URI          string         `json:"uri"`

	Albums Loader[SpotifyAlbum] `json:"-"`
}

// SpotifyAlbum represents a Spotify album.
//
// Tracks is set on albums returned by [Client.Album] and by an artist's album loader.
type SpotifyAlbum struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	AlbumGroup           string          `json:"album_group,omitempty"`
	AlbumType            string          `json:"album_type"`
	Artists              []SpotifyArtist `json:"artists"`
	AvailableMarkets     []string        `json:"available_markets,omitempty"`
	ExternalURLs         externalURLs    `json:"external_urls"`
	Href                 string          `json:"href"`
	Images               []SpotifyImage  `json:"images"`
	Label                string          `json:"label,omitempty"`
	Popularity           int             `json:"popularity,omitempty"`
	ReleaseDate          string          `json:"release_date"`
	ReleaseDatePrecision string          `json:"release_date_precision"`
	TotalTracks          int             `json:"total_tracks"`
	Type                 string          `json:"type"`
	URI                  string          `json:"uri"`

	Tracks Loader[SpotifyTrack] `json:"-"`
}

// SpotifyTrack represents a Spotify track. Album is absent on album track listings.
type SpotifyTrack struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Album            *SpotifyAlbum   `json:"album,omitempty"`
	Artists          []SpotifyArtist `json:"artists"`
	AvailableMarkets []string        `json:"available_markets,omitempty"`
	DiscNumber       int             `json:"disc_number"`
	DurationMS       int             `json:"duration_ms"`
	Episode          bool            `json:"episode,omitempty"`
	Explicit         bool            `json:"explicit"`
	ExternalIDs      externalIDs     `json:"external_ids"`
	ExternalURLs     externalURLs    `json:"external_urls"`
	Href             string          `json:"href"`
	IsLocal          bool            `json:"is_local"`
	Popularity       int             `json:"popularity,omitempty"`
	PreviewURL       *string         `json:"preview_url"`
	TrackNumber      int             `json:"track_number"`
	Type             string          `json:"type"`
	URI              string          `json:"uri"`
}

// SpotifyPlaylistItem is a track within a playlist. Track is null for unavailable items.
type SpotifyPlaylistItem struct {
	AddedAt      string              `json:"added_at"`
	AddedBy      *SpotifyUser        `json:"added_by"`
	IsLocal      bool                `json:"is_local"`
	PrimaryColor *string             `json:"primary_color"`
	SharingInfo  *SpotifySharingInfo `json:"sharing_info,omitempty"`
	Track        *SpotifyTrack       `json:"track"`
}

// SpotifyPlaylist represents a Spotify playlist.
//
// Tracks holds every merged page when fetched with all, otherwise only the first page; Next is
// nil once the last page has been merged.
type SpotifyPlaylist struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Collaborative bool                      `json:"collaborative"`
	Description   string                    `json:"description"`
	ExternalURLs  externalURLs              `json:"external_urls"`
	Followers     followers                 `json:"followers"`
	Href          string                    `json:"href"`
	Images        []SpotifyImage            `json:"images"`
	Owner         SpotifyUser               `json:"owner"`
	PrimaryColor  *string                   `json:"primary_color"`
	Public        *bool                     `json:"public"`
	SharingInfo   *SpotifySharingInfo       `json:"sharing_info,omitempty"`
	SnapshotID    string                    `json:"snapshot_id"`
	Tracks        Page[SpotifyPlaylistItem] `json:"tracks"`
	Type          string                    `json:"type"`
	URI           string                    `json:"uri"`
}

// Options configures a [Client]. Every field is optional.
type Options struct {
	// AutoFetchToken enables refreshing through TokenURL when the credential expires.
	// nil means enabled.
	AutoFetchToken *bool

	// Headers are sent with every request. Accept defaults to application/json.
	Headers map[string]string

	TokenURL    string
	TrackURL    string
	PlaylistURL string
	AlbumURL    string
	ArtistURL   string

	// Token and Expiry seed the credential, e.g. from a stored token.
	Token  string
	Expiry time.Time

	HTTPClient *http.Client
	Logger     *log.Logger
	Now        func() time.Time
}

// Client resolves catalog references and fetches the matching resources.
//
// A Client is safe for concurrent use.
type Client struct {
	headers     map[string]string
	trackURL    string
	playlistURL string
	albumURL    string
	artistURL   string
	httpClient  *http.Client
	logger      *log.Logger
	tokens      *TokenManager
}

// NewClient creates a client, filling unset options with the public Spotify endpoints.
func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	headers := map[string]string{"Accept": "application/json"}
	for k, v := range opts.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}

	c := &Client{
		headers:     headers,
		trackURL:    endpoint(opts.TrackURL, DefaultTrackURL),
		playlistURL: endpoint(opts.PlaylistURL, DefaultPlaylistURL),
		albumURL:    endpoint(opts.AlbumURL, DefaultAlbumURL),
		artistURL:   endpoint(opts.ArtistURL, DefaultArtistURL),
		httpClient:  opts.HTTPClient,
		logger:      shared.WithLogger(opts.Logger, "component", "spotify"),
	}

	auto := opts.AutoFetchToken == nil || *opts.AutoFetchToken
	if !auto {
		c.logger.Warn("token auto-fetch disabled; requests use the configured credential as is")
	}

	tokenURL := opts.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	c.tokens = &TokenManager{
		url:    tokenURL,
		auto:   auto,
		now:    opts.Now,
		get:    c.get,
		logger: c.logger,
	}
	if opts.Token != "" {
		c.tokens.Set(opts.Token, opts.Expiry)
	}

	return c
}

// endpoint returns value, or fallback when empty, with a trailing slash so ids can be appended.
func endpoint(value, fallback string) string {
	if value == "" {
		value = fallback
	}
	if !strings.HasSuffix(value, "/") {
		value += "/"
	}
	return value
}

// Tokens exposes the token manager, e.g. to force a refresh or use it as an [oauth2.TokenSource].
func (c *Client) Tokens() *TokenManager {
	return c.tokens
}

// OnNewToken registers a callback invoked with the raw token after every successful refresh.
func (c *Client) OnNewToken(callback func(token string)) {
	c.tokens.OnNewToken(callback)
}

// Credential returns a copy of the current credential.
func (c *Client) Credential() oauth2.Token {
	return c.tokens.Credential()
}

// Playlist resolves urlOrID and fetches the playlist. When all is set, every following page of
// the playlist's tracks is merged into Tracks.Items and Tracks.Next ends up nil.
func (c *Client) Playlist(ctx context.Context, urlOrID string, all bool) (*SpotifyPlaylist, error) {
	id, err := resolve(urlOrID, PlaylistPattern)
	if err != nil {
		return nil, err
	}

	if err := c.tokens.EnsureValid(ctx); err != nil {
		return nil, err
	}

	url := c.playlistURL + id
	playlist, err := getJSON[SpotifyPlaylist](ctx, c, url)
	if err != nil {
		return nil, err
	}

	if all {
		if err := followPages(ctx, c, &playlist.Tracks, url); err != nil {
			return nil, err
		}
	}
	return playlist, nil
}

// Album resolves urlOrID and fetches the album. Its track list is loaded through Tracks.
func (c *Client) Album(ctx context.Context, urlOrID string) (*SpotifyAlbum, error) {
	id, err := resolve(urlOrID, AlbumPattern)
	if err != nil {
		return nil, err
	}

	if err := c.tokens.EnsureValid(ctx); err != nil {
		return nil, err
	}

	album, err := getJSON[SpotifyAlbum](ctx, c, c.albumURL+id)
	if err != nil {
		return nil, err
	}

	album.Tracks = c.trackLoader(id)
	return album, nil
}

// Track resolves urlOrID and fetches the track.
func (c *Client) Track(ctx context.Context, urlOrID string) (*SpotifyTrack, error) {
	id, err := resolve(urlOrID, TrackPattern)
	if err != nil {
		return nil, err
	}

	if err := c.tokens.EnsureValid(ctx); err != nil {
		return nil, err
	}

	return getJSON[SpotifyTrack](ctx, c, c.trackURL+id)
}

// Artist resolves urlOrID and fetches the artist. Its albums are loaded through Albums, and each
// loaded album carries its own track loader.
func (c *Client) Artist(ctx context.Context, urlOrID string) (*SpotifyArtist, error) {
	id, err := resolve(urlOrID, ArtistPattern)
	if err != nil {
		return nil, err
	}

	if err := c.tokens.EnsureValid(ctx); err != nil {
		return nil, err
	}

	artist, err := getJSON[SpotifyArtist](ctx, c, c.artistURL+id)
	if err != nil {
		return nil, err
	}

	artist.Albums = c.albumLoader(id)
	return artist, nil
}
