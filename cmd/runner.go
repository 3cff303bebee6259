package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/repositories"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The catalog client and the token database are created on first use so that setup commands
// work without either.
type Runner struct {
	configPath string
	config     *shared.Config
	catalog    services.Catalog
	client     *services.Client
	db         *sql.DB
	tokens     *repositories.TokenRepository
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	now        func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	ConfigPath string
	Config     *shared.Config
	Catalog    services.Catalog
	Client     *services.Client
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Now        func() time.Time
}

// NewRunner creates a new Runner with the provided configuration.
//
// A Config left nil is loaded from the --config path before any command runs.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &Runner{
		configPath: opts.ConfigPath,
		config:     opts.Config,
		catalog:    opts.Catalog,
		client:     opts.Client,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		now:        opts.Now,
	}
	if r.catalog == nil && r.client != nil {
		r.catalog = r.client
	}
	if r.db != nil {
		r.tokens = repositories.NewTokenRepository(r.db)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		playlistCommand, albumCommand, trackCommand, artistCommand, discographyCommand, browseCommand, tokenCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before applies global flags and loads the configuration.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.config != nil {
		return ctx, nil
	}

	config, err := shared.LoadConfigOrDefault(r.configPath)
	if err != nil {
		return ctx, err
	}
	if err := shared.ApplyEnv(config); err != nil {
		return ctx, err
	}
	r.config = config

	return ctx, nil
}

// After closes the token database when a command opened it.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.tokens = nil, nil
	return err
}

// SetLogger replaces the logger used by the runner and by clients it creates afterwards.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// clientOptions maps the client section of the configuration onto [services.Options].
func clientOptions(config *shared.Config, httpClient *http.Client, logger *log.Logger) services.Options {
	c := config.Client

	opts := services.Options{
		AutoFetchToken: c.AutoFetchToken,
		Headers:        c.Headers,
		TokenURL:       c.TokenURL,
		TrackURL:       c.TrackURL,
		PlaylistURL:    c.PlaylistURL,
		AlbumURL:       c.AlbumURL,
		ArtistURL:      c.ArtistURL,
		Token:          c.AccessToken,
		HTTPClient:     httpClient,
		Logger:         logger,
	}
	if opts.TokenURL == "" {
		opts.TokenURL = services.DefaultTokenURL
	}
	return opts
}

// tokenStore opens the token database on first use.
func (r *Runner) tokenStore() (*repositories.TokenRepository, error) {
	if r.tokens != nil {
		return r.tokens, nil
	}

	db, err := shared.OpenMigrated(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	r.db = db
	r.tokens = repositories.NewTokenRepository(db)
	return r.tokens, nil
}

// ensureClient builds the catalog client, seeding it from the token store when persistence is on.
func (r *Runner) ensureClient() (*services.Client, error) {
	if r.client != nil {
		return r.client, nil
	}
	if r.config == nil {
		return nil, fmt.Errorf("%w: configuration not loaded", shared.ErrMissingConfig)
	}

	opts := clientOptions(r.config, r.httpClient, r.logger)
	opts.Now = r.now

	var store *repositories.TokenRepository
	if r.config.Store.PersistToken {
		var err error
		if store, err = r.tokenStore(); err != nil {
			return nil, err
		}

		stored, err := store.LatestUsable(r.now())
		switch {
		case err == nil && opts.Token == "":
			opts.Token, opts.Expiry = stored.AccessToken(), stored.ExpiresAt()
			r.logger.Debug("reusing stored token", "expires", stored.ExpiresAt().Format(time.RFC3339))
		case err != nil && !isNotFound(err):
			r.logger.Warn("failed to read stored token", "error", err)
		}
	}

	client := services.NewClient(opts)
	if store != nil {
		client.OnNewToken(r.persistToken(client, store, opts.TokenURL))
	}

	r.client = client
	if r.catalog == nil {
		r.catalog = client
	}
	return client, nil
}

// ensureCatalog returns the injected catalog or the lazily built client.
func (r *Runner) ensureCatalog() (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}
	return r.ensureClient()
}

// persistToken returns the OnNewToken callback saving each refreshed token.
func (r *Runner) persistToken(client *services.Client, store *repositories.TokenRepository, source string) func(string) {
	return func(token string) {
		expiry := client.Credential().Expiry
		if err := store.Create(models.NewStoredToken(token, expiry, source)); err != nil {
			r.logger.Warn("failed to store token", "error", err)
			return
		}
		r.logger.Debug("token stored", "expires", expiry.Format(time.RFC3339))
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
