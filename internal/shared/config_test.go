package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./spotx.db" {
			t.Errorf("expected database path ./spotx.db, got %s", config.Database.Path)
		}

		if !config.Client.AutoFetch() {
			t.Error("expected auto fetch to be enabled by default")
		}

		if config.Client.AlbumURL != "https://api.spotify.com/v1/albums/" {
			t.Errorf("unexpected album url %s", config.Client.AlbumURL)
		}

		if config.Client.Headers["Accept"] != "application/json" {
			t.Errorf("expected Accept header, got %v", config.Client.Headers)
		}

		if config.Store.PersistToken {
			t.Error("expected token persistence to be off by default")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Client.TokenURL != DefaultConfig().Client.TokenURL {
			t.Errorf("created config token url doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[client]
auto_fetch_token = false
access_token = "static"
track_url = "http://localhost:9090/tracks/"

[client.headers]
Accept = "application/json"
Cookie = "sp_dc=abc"

[database]
path = "/custom/path.db"

[store]
persist_token = true
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Client.AutoFetch() {
			t.Error("expected explicit false to disable auto fetch")
		}
		if config.Client.AccessToken != "static" {
			t.Errorf("expected access token static, got %s", config.Client.AccessToken)
		}
		if config.Client.TrackURL != "http://localhost:9090/tracks/" {
			t.Errorf("unexpected track url %s", config.Client.TrackURL)
		}
		if config.Client.Headers["Cookie"] != "sp_dc=abc" {
			t.Errorf("expected cookie header, got %v", config.Client.Headers)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if !config.Store.PersistToken {
			t.Error("expected persist_token to be true")
		}
	})

	t.Run("LoadConfig Missing Key Keeps Auto Fetch", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[client]\ntoken_url = \"x\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Client.AutoFetchToken != nil || !config.Client.AutoFetch() {
			t.Error("expected omitted auto_fetch_token to default to enabled")
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[client\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfigOrDefault", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Database.Path != "./spotx.db" {
			t.Errorf("expected default config, got %+v", config.Database)
		}
	})

	t.Run("SaveConfig Round Trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Client.MergeHeaders(map[string]string{"Cookie": "sp_dc=abc"})

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Client.Headers["Cookie"] != "sp_dc=abc" {
			t.Errorf("expected merged cookie header, got %v", loaded.Client.Headers)
		}
		if loaded.Client.Headers["Accept"] != "application/json" {
			t.Errorf("expected Accept header to survive, got %v", loaded.Client.Headers)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("SPOTX_TOKEN_URL", "http://localhost/token")
		t.Setenv("SPOTX_AUTO_FETCH_TOKEN", "false")
		t.Setenv("SPOTX_DATABASE_PATH", "/tmp/env.db")
		t.Setenv("SPOTX_PERSIST_TOKEN", "true")

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Client.TokenURL != "http://localhost/token" {
			t.Errorf("expected env token url, got %s", config.Client.TokenURL)
		}
		if config.Client.AutoFetch() {
			t.Error("expected env to disable auto fetch")
		}
		if config.Database.Path != "/tmp/env.db" {
			t.Errorf("expected env database path, got %s", config.Database.Path)
		}
		if !config.Store.PersistToken {
			t.Error("expected env to enable token persistence")
		}
		if config.Client.AlbumURL != DefaultConfig().Client.AlbumURL {
			t.Error("unset variables must not override file values")
		}
	})

	t.Run("ApplyEnv Reads Dotenv", func(t *testing.T) {
		dir := t.TempDir()
		chdir(t, dir)
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SPOTX_ACCESS_TOKEN=from_dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("SPOTX_ACCESS_TOKEN") })

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Client.AccessToken != "from_dotenv" {
			t.Errorf("expected access token from .env, got %q", config.Client.AccessToken)
		}
	})

	t.Run("ApplyEnv Invalid Bool", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("SPOTX_AUTO_FETCH_TOKEN", "maybe")

		if err := ApplyEnv(DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
}
