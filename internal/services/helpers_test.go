package services

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// route is a canned response. "{{base}}" in body is replaced with the server URL.
type route struct {
	status      int
	contentType string
	body        string
}

func jsonRoute(body string) route {
	return route{status: http.StatusOK, contentType: "application/json; charset=utf-8", body: body}
}

func tokenRoute(token string, expires time.Time) route {
	return jsonRoute(fmt.Sprintf(`{"clientId":"web","accessToken":%q,"accessTokenExpirationTimestampMs":%d,"isAnonymous":true}`, token, expires.UnixMilli()))
}

// testAPI is a fake catalog and token endpoint recording every request it serves.
type testAPI struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]route
	requests []*http.Request
}

func newTestAPI(t *testing.T, routes map[string]route) *testAPI {
	t.Helper()

	api := &testAPI{routes: map[string]route{"/token": tokenRoute("tok-1", testNow.Add(time.Hour))}}
	for k, v := range routes {
		api.routes[k] = v
	}

	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.requests = append(api.requests, r.Clone(r.Context()))
		rt, ok := api.routes[r.URL.RequestURI()]
		api.mu.Unlock()

		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":{"status":404,"message":"Resource not found"}}`)
			return
		}

		w.Header().Set("Content-Type", rt.contentType)
		w.WriteHeader(rt.status)
		io.WriteString(w, strings.ReplaceAll(rt.body, "{{base}}", api.URL))
	}))
	t.Cleanup(api.Close)

	return api
}

// set replaces a route while the server is running.
func (a *testAPI) set(uri string, r route) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[uri] = r
}

// paths returns the request URIs served so far, in order.
func (a *testAPI) paths() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.requests))
	for i, r := range a.requests {
		out[i] = r.URL.RequestURI()
	}
	return out
}

// count returns how many requests were made for uri.
func (a *testAPI) count(uri string) int {
	n := 0
	for _, p := range a.paths() {
		if p == uri {
			n++
		}
	}
	return n
}

func (a *testAPI) last() *http.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.requests) == 0 {
		return nil
	}
	return a.requests[len(a.requests)-1]
}

// options points every endpoint at the fake server and pins the clock to testNow.
func (a *testAPI) options() Options {
	return Options{
		TokenURL:    a.URL + "/token",
		TrackURL:    a.URL + "/v1/tracks/",
		PlaylistURL: a.URL + "/v1/playlists/",
		AlbumURL:    a.URL + "/v1/albums/",
		ArtistURL:   a.URL + "/v1/artists/",
		HTTPClient:  a.Client(),
		Logger:      log.New(io.Discard),
		Now:         func() time.Time { return testNow },
	}
}

func (a *testAPI) client() *Client {
	return NewClient(a.options())
}

// mockRoundTripper returns a fixed response or error.
type mockRoundTripper struct {
	response *http.Response
	err      error
}

func (m *mockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
