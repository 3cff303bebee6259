package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
	tu "github.com/desertthunder/spotx/internal/testing"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newMockCatalog() *tu.MockCatalog {
	public := true
	album := &services.SpotifyAlbum{
		ID:          "al1",
		Name:        "First",
		ReleaseDate: "2020-02-02",
		TotalTracks: 2,
		Artists:     []services.SpotifyArtist{{Name: "Artist A"}},
		Tracks: tu.StaticLoader(
			[]services.SpotifyTrack{{ID: "t1", Name: "One", DurationMS: 60000, Artists: []services.SpotifyArtist{{Name: "Artist A"}}}},
			[]services.SpotifyTrack{{ID: "t2", Name: "Two", DurationMS: 90000, Artists: []services.SpotifyArtist{{Name: "Artist A"}}}},
		),
	}
	track := &services.SpotifyTrack{ID: "t1", Name: "One", DurationMS: 60000, Artists: []services.SpotifyArtist{{Name: "Artist A"}}, Album: album}

	return &tu.MockCatalog{
		Playlists: map[string]*services.SpotifyPlaylist{
			"pl1": {
				ID:     "pl1",
				Name:   "Road Trip",
				Public: &public,
				Tracks: services.Page[services.SpotifyPlaylistItem]{Items: []services.SpotifyPlaylistItem{{Track: track}}},
			},
		},
		Albums: map[string]*services.SpotifyAlbum{"al1": album},
		Tracks: map[string]*services.SpotifyTrack{"t1": track},
		Artists: map[string]*services.SpotifyArtist{
			"a1": {ID: "a1", Name: "Artist A", Albums: tu.StaticLoader([]services.SpotifyAlbum{*album}, nil)},
		},
	}
}

func newTestRunner(t *testing.T, opts RunnerOpts) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	opts.Output = output
	opts.Logger = log.New(io.Discard)
	opts.Now = func() time.Time { return testNow }
	return NewRunner(opts), output
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	return newApp(r).Run(context.Background(), append([]string{"spotx"}, args...))
}

// tokenServer serves the token endpoint and counts requests.
func tokenServer(t *testing.T, token string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"accessToken":%q,"accessTokenExpirationTimestampMs":%d}`, token, testNow.Add(time.Hour).UnixMilli())
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := newMockCatalog()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Catalog:    catalog,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil dependencies uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("client doubles as catalog", func(t *testing.T) {
			client := services.NewClient(services.Options{Logger: log.New(io.Discard)})
			runner := NewRunner(RunnerOpts{Client: client})

			if runner.catalog != client {
				t.Error("expected client to be used as catalog")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			runner, output := newTestRunner(t, RunnerOpts{})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("returns error on write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})

		t.Run("returns error on marshal failure", func(t *testing.T) {
			runner, _ := newTestRunner(t, RunnerOpts{})

			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("expected marshal error")
			}
		})
	})
}

func TestClientOptions(t *testing.T) {
	config := shared.DefaultConfig()
	off := false
	config.Client.AutoFetchToken = &off
	config.Client.AccessToken = "configured"
	config.Client.TokenURL = ""
	config.Client.Headers = map[string]string{"App-Platform": "WebPlayer"}

	opts := clientOptions(config, http.DefaultClient, nil)

	if opts.AutoFetchToken == nil || *opts.AutoFetchToken {
		t.Error("expected auto fetch to be disabled")
	}
	if opts.Token != "configured" {
		t.Errorf("expected configured token, got %q", opts.Token)
	}
	if opts.TokenURL != services.DefaultTokenURL {
		t.Errorf("expected default token URL, got %q", opts.TokenURL)
	}
	if opts.Headers["App-Platform"] != "WebPlayer" {
		t.Error("expected headers to be passed through")
	}
	if opts.PlaylistURL != config.Client.PlaylistURL {
		t.Errorf("expected playlist URL %q, got %q", config.Client.PlaylistURL, opts.PlaylistURL)
	}
}

func TestLookupCommands(t *testing.T) {
	t.Run("playlist JSON", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		if err := run(t, runner, "playlist", "pl1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"name":"Road Trip"`) {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("playlist text", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		if err := run(t, runner, "playlist", "--format", "text", "pl1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "1. Artist A - One") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("album JSON includes tracks", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		if err := run(t, runner, "album", "--pretty", "al1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := output.String()
		if !strings.Contains(out, `"tracks": [`) || !strings.Contains(out, `"name": "Two"`) {
			t.Errorf("expected every track in output: %s", out)
		}
	})

	t.Run("album first page", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		if err := run(t, runner, "album", "--first-page", "--format", "csv", "al1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "One") || strings.Contains(out, "Two") {
			t.Errorf("expected first page only: %s", out)
		}
	})

	t.Run("track markdown", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		if err := run(t, runner, "track", "--format", "md", "t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "# One") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("artist text", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		if err := run(t, runner, "artist", "--text", "a1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "1. First (2020) [2 tracks]") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("discography text", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		if err := run(t, runner, "discography", "--format", "text", "a1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "Album: First") || !strings.Contains(out, "2. Artist A - Two") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("output directory", func(t *testing.T) {
		runner, output := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})
		dir := t.TempDir()

		if err := run(t, runner, "playlist", "--format", "csv", "--output", dir, "pl1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "pl1_tracks.csv"))
		tu.AssertFileExists(t, filepath.Join(dir, "pl1_metadata.json"))
		if !strings.Contains(output.String(), "pl1_tracks.csv") {
			t.Errorf("expected written files to be listed: %s", output.String())
		}
	})

	t.Run("missing reference", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		if err := run(t, runner, "playlist"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		if err := run(t, runner, "album", "--format", "xml", "al1"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("invalid reference", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		err := run(t, runner, "track", "nope")
		if !errors.Is(err, shared.ErrInvalidReference) {
			t.Errorf("expected ErrInvalidReference, got %v", err)
		}
	})
}

func TestTokenCommands(t *testing.T) {
	newConfig := func(t *testing.T, tokenURL string, persist bool) *shared.Config {
		config := shared.DefaultConfig()
		config.Client.TokenURL = tokenURL
		config.Store.PersistToken = persist
		config.Database.Path = filepath.Join(t.TempDir(), "spotx.db")
		return config
	}

	t.Run("show before any refresh", func(t *testing.T) {
		server, hits := tokenServer(t, "tok-cli-123456789")
		runner, output := newTestRunner(t, RunnerOpts{Config: newConfig(t, server.URL, false)})

		if err := run(t, runner, "token", "show"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No token yet") {
			t.Errorf("unexpected output: %s", output.String())
		}
		if atomic.LoadInt32(hits) != 0 {
			t.Error("show must not fetch a token")
		}
	})

	t.Run("refresh then reuse stored token", func(t *testing.T) {
		server, hits := tokenServer(t, "tok-cli-123456789")
		config := newConfig(t, server.URL, true)

		runner, output := newTestRunner(t, RunnerOpts{Config: config})
		if err := run(t, runner, "token", "refresh"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "tok-…6789") {
			t.Errorf("expected masked token, got %s", output.String())
		}
		if strings.Contains(output.String(), "tok-cli-123456789") {
			t.Error("token must not be printed in full")
		}

		next, output := newTestRunner(t, RunnerOpts{Config: config})
		if err := run(t, next, "token", "show", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"valid": true`) {
			t.Errorf("expected stored token to be valid: %s", output.String())
		}
		if n := atomic.LoadInt32(hits); n != 1 {
			t.Errorf("expected 1 token fetch across runs, got %d", n)
		}

		clearer, output := newTestRunner(t, RunnerOpts{Config: config})
		if err := run(t, clearer, "token", "clear"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Cleared 1 stored token(s)") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("clear without store", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Config: newConfig(t, "", false)})

		if err := run(t, runner, "token", "clear"); !errors.Is(err, shared.ErrStoreDisabled) {
			t.Errorf("expected ErrStoreDisabled, got %v", err)
		}
	})

	t.Run("refresh failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		}))
		defer server.Close()

		runner, _ := newTestRunner(t, RunnerOpts{Config: newConfig(t, server.URL, false)})

		if err := run(t, runner, "token", "refresh"); !errors.Is(err, shared.ErrNotJSON) {
			t.Errorf("expected ErrNotJSON, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		runner, _ := newTestRunner(t, RunnerOpts{})

		if err := run(t, runner, "--config", path, "setup", "config"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)

		if err := run(t, runner, "--config", path, "setup", "config"); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("database", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "spotx.db")
		runner, _ := newTestRunner(t, RunnerOpts{Config: config})

		if err := run(t, runner, "setup", "database"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)
		if runner.db != nil {
			t.Error("expected database to be closed after the command")
		}
	})

	t.Run("headers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		runner, output := newTestRunner(t, RunnerOpts{})
		curl := `curl 'https://open.spotify.com/get_access_token' -H 'app-platform: WebPlayer' -H 'authorization: Bearer stale' -b 'sp_dc=abc'`

		if err := run(t, runner, "--config", path, "setup", "headers", "--curl", curl); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		config, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if config.Client.Headers["app-platform"] != "WebPlayer" {
			t.Errorf("expected app-platform header, got %v", config.Client.Headers)
		}
		if config.Client.Headers["Cookie"] != "sp_dc=abc" {
			t.Errorf("expected cookie header, got %v", config.Client.Headers)
		}
		if _, ok := config.Client.Headers["authorization"]; ok {
			t.Error("authorization must not be stored")
		}
		if !strings.Contains(output.String(), "Stored 2 header(s)") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("headers requires a source", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{})

		if err := run(t, runner, "setup", "headers"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("headers rejects both sources", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{})

		err := run(t, runner, "setup", "headers", "--curl", "curl x", "--curl-file", "x.sh")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestBefore(t *testing.T) {
	t.Run("loads config from path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[database]\npath = \"custom.db\"\n"), 0644); err != nil {
			t.Fatal(err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: log.New(io.Discard), Catalog: newMockCatalog()})

		if err := run(t, runner, "--config", path, "track", "t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.config == nil || runner.config.Database.Path != "custom.db" {
			t.Errorf("expected config from %s, got %+v", path, runner.config)
		}
	})

	t.Run("debug flag", func(t *testing.T) {
		runner, _ := newTestRunner(t, RunnerOpts{Catalog: newMockCatalog()})

		if err := run(t, runner, "--debug", "track", "t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.logger.GetLevel() != log.DebugLevel {
			t.Error("expected debug level")
		}
	})
}
