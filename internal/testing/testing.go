// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
)

// MockCatalog is a test double for [services.Catalog] serving canned entities keyed by reference.
// References missing from the maps fail with [shared.ErrInvalidReference]; Err, when set, fails
// every call.
type MockCatalog struct {
	Playlists map[string]*services.SpotifyPlaylist
	Albums    map[string]*services.SpotifyAlbum
	Tracks    map[string]*services.SpotifyTrack
	Artists   map[string]*services.SpotifyArtist
	Err       error

	// Calls records every reference passed in, in order.
	Calls []string
}

var _ services.Catalog = (*MockCatalog)(nil)

func lookup[T any](m *MockCatalog, entities map[string]*T, ref string) (*T, error) {
	m.Calls = append(m.Calls, ref)
	if m.Err != nil {
		return nil, m.Err
	}
	if v, ok := entities[ref]; ok {
		return v, nil
	}
	return nil, shared.ErrInvalidReference
}

func (m *MockCatalog) Playlist(ctx context.Context, urlOrID string, all bool) (*services.SpotifyPlaylist, error) {
	return lookup(m, m.Playlists, urlOrID)
}

func (m *MockCatalog) Album(ctx context.Context, urlOrID string) (*services.SpotifyAlbum, error) {
	return lookup(m, m.Albums, urlOrID)
}

func (m *MockCatalog) Track(ctx context.Context, urlOrID string) (*services.SpotifyTrack, error) {
	return lookup(m, m.Tracks, urlOrID)
}

func (m *MockCatalog) Artist(ctx context.Context, urlOrID string) (*services.SpotifyArtist, error) {
	return lookup(m, m.Artists, urlOrID)
}

// StaticLoader returns a loader yielding items, or only the first page items when all is false.
func StaticLoader[T any](firstPage, rest []T) services.Loader[T] {
	return services.LoaderFunc[T](func(_ context.Context, all bool) ([]T, error) {
		out := append([]T{}, firstPage...)
		if all {
			out = append(out, rest...)
		}
		return out, nil
	})
}

// FailingLoader returns a loader that always fails with err.
func FailingLoader[T any](err error) services.Loader[T] {
	return services.LoaderFunc[T](func(context.Context, bool) ([]T, error) {
		return nil, err
	})
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
