// Package services implements [Client], an accessor for the Spotify catalog API that resolves
// playlists, albums, tracks and artists from share URLs or bare ids.
//
// # Identifier Resolution
//
// [ResolveID] accepts either an open.spotify.com URL for the requested [Kind] or a bare id.
// URLs are reduced to their last path segment (query string dropped) and the result is checked
// against the bare id pattern again, so a URL for a different kind is rejected with
// [shared.ErrInvalidReference] before any request is made.
//
// # Token Lifecycle
//
// [TokenManager] holds the bearer credential as an [oauth2.Token]. Before each lookup the
// client calls EnsureValid, which fetches a new anonymous web-player token when the current one
// has expired and notifies the callback registered with OnNewToken. The manager also satisfies
// [oauth2.TokenSource].
//
// # Pagination
//
// Multi-page endpoints return a [Page]. Cursors are followed sequentially, one request at a
// time, and items are appended in arrival order. Playlists merge every page into
// SpotifyPlaylist.Tracks; albums and artists expose a [Loader] that fetches their tracks or
// albums on demand, either every page or only the first.
//
// # Error Handling
//
//   - [shared.ErrInvalidReference] : input is not a URL or id for the requested kind
//   - [ProtocolError] : response was not JSON or did not match the expected record
//   - [RemoteError] : JSON error body with a non-2xx status, kept verbatim
//
// Errors from resolution, token refresh and fetching reach the caller unchanged.
package services
