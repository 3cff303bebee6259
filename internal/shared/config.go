package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvPrefix is the prefix of environment variables that override file configuration.
const EnvPrefix = "spotx"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Client   ClientConfig   `toml:"client"`
	Database DatabaseConfig `toml:"database"`
	Store    StoreConfig    `toml:"store"`
}

// ClientConfig contains catalog client endpoints and request headers.
//
// AutoFetchToken is a pointer so that an omitted key keeps the default (enabled)
// while an explicit false turns refreshing off.
type ClientConfig struct {
	AutoFetchToken *bool             `toml:"auto_fetch_token"`
	AccessToken    string            `toml:"access_token"`
	TokenURL       string            `toml:"token_url"`
	TrackURL       string            `toml:"track_url"`
	PlaylistURL    string            `toml:"playlist_url"`
	AlbumURL       string            `toml:"album_url"`
	ArtistURL      string            `toml:"artist_url"`
	Headers        map[string]string `toml:"headers"`
}

// AutoFetch reports whether token auto-fetching is enabled.
func (c ClientConfig) AutoFetch() bool {
	return c.AutoFetchToken == nil || *c.AutoFetchToken
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// StoreConfig controls token persistence.
type StoreConfig struct {
	PersistToken bool `toml:"persist_token"`
}

// envOverrides lists the SPOTX_* variables read by [ApplyEnv].
type envOverrides struct {
	AutoFetchToken *bool  `envconfig:"AUTO_FETCH_TOKEN"`
	AccessToken    string `envconfig:"ACCESS_TOKEN"`
	TokenURL       string `envconfig:"TOKEN_URL"`
	TrackURL       string `envconfig:"TRACK_URL"`
	PlaylistURL    string `envconfig:"PLAYLIST_URL"`
	AlbumURL       string `envconfig:"ALBUM_URL"`
	ArtistURL      string `envconfig:"ARTIST_URL"`
	DatabasePath   string `envconfig:"DATABASE_PATH"`
	PersistToken   *bool  `envconfig:"PERSIST_TOKEN"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// LoadConfigOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads a .env file from the working directory when present and
// overlays SPOTX_* environment variables onto config.
func ApplyEnv(config *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if env.AutoFetchToken != nil {
		config.Client.AutoFetchToken = env.AutoFetchToken
	}
	if env.PersistToken != nil {
		config.Store.PersistToken = *env.PersistToken
	}

	overlay := []struct {
		dst *string
		src string
	}{
		{&config.Client.AccessToken, env.AccessToken},
		{&config.Client.TokenURL, env.TokenURL},
		{&config.Client.TrackURL, env.TrackURL},
		{&config.Client.PlaylistURL, env.PlaylistURL},
		{&config.Client.AlbumURL, env.AlbumURL},
		{&config.Client.ArtistURL, env.ArtistURL},
		{&config.Database.Path, env.DatabasePath},
	}
	for _, o := range overlay {
		if o.src != "" {
			*o.dst = o.src
		}
	}

	return nil
}

// MergeHeaders copies headers into the client header table, replacing existing keys.
func (c *ClientConfig) MergeHeaders(headers map[string]string) {
	if c.Headers == nil {
		c.Headers = make(map[string]string, len(headers))
	}
	for k, v := range headers {
		c.Headers[k] = v
	}
}
