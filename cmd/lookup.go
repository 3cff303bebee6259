package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotx/internal/formatter"
	"github.com/desertthunder/spotx/internal/models"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// albumOutput is an album with its loaded tracks, for JSON output.
type albumOutput struct {
	*services.SpotifyAlbum
	Tracks []services.SpotifyTrack `json:"tracks"`
}

// artistOutput is an artist with its loaded albums, for JSON output.
type artistOutput struct {
	*services.SpotifyArtist
	Albums []services.SpotifyAlbum `json:"albums"`
}

func reference(cmd *cli.Command) (string, error) {
	ref := cmd.Args().First()
	if ref == "" {
		return "", fmt.Errorf("%w: a Spotify url or id is required", shared.ErrMissingArgument)
	}
	return ref, nil
}

// lookup reads the reference and the output flags shared by the lookup commands.
func lookup(cmd *cli.Command) (ref string, format formatter.Format, err error) {
	if ref, err = reference(cmd); err != nil {
		return "", "", err
	}
	if format, err = formatter.ParseFormat(cmd.String("format")); err != nil {
		return "", "", err
	}
	return ref, format, nil
}

// emit writes c to stdout, or to files under --output.
func (r *Runner) emit(ctx context.Context, cmd *cli.Command, c *models.Collection, format formatter.Format) error {
	if dir := cmd.String("output"); dir != "" {
		exporter := &formatter.Exporter{HTTPClient: r.httpClient, Logger: r.logger}
		result, err := exporter.Export(ctx, c, format, dir)
		if err != nil {
			return err
		}
		for _, f := range result.Files {
			r.writePlain("✓ %s\n", f)
		}
		return nil
	}
	return formatter.Render(r.output, c, format, cmd.Bool("pretty"))
}

// Playlist fetches a playlist. JSON output is the playlist record itself.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	ref, format, err := lookup(cmd)
	if err != nil {
		return err
	}

	catalog, err := r.ensureCatalog()
	if err != nil {
		return err
	}

	if format != formatter.FormatJSON || cmd.String("output") != "" {
		return r.export(ctx, cmd, catalog, services.KindPlaylist, ref, format)
	}

	playlist, err := catalog.Playlist(ctx, ref, !cmd.Bool("first-page"))
	if err != nil {
		return err
	}
	r.logger.Debug("fetched playlist", "id", playlist.ID, "items", len(playlist.Tracks.Items))

	return r.writeJSON(playlist, cmd.Bool("pretty"))
}

// Album fetches an album and loads its tracks.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	ref, format, err := lookup(cmd)
	if err != nil {
		return err
	}

	catalog, err := r.ensureCatalog()
	if err != nil {
		return err
	}

	if format != formatter.FormatJSON || cmd.String("output") != "" {
		return r.export(ctx, cmd, catalog, services.KindAlbum, ref, format)
	}

	album, err := catalog.Album(ctx, ref)
	if err != nil {
		return err
	}

	var tracks []services.SpotifyTrack
	if album.Tracks != nil {
		if tracks, err = album.Tracks.Load(ctx, !cmd.Bool("first-page")); err != nil {
			return fmt.Errorf("failed to load album tracks: %w", err)
		}
	}

	return r.writeJSON(albumOutput{SpotifyAlbum: album, Tracks: tracks}, cmd.Bool("pretty"))
}

// export builds a playlist or album collection and writes it in a non-raw format.
func (r *Runner) export(ctx context.Context, cmd *cli.Command, catalog services.Catalog, kind services.Kind, ref string, format formatter.Format) error {
	c, err := tasks.NewCatalogEngine(catalog).Export(ctx, kind, ref, !cmd.Bool("first-page"), nil)
	if err != nil {
		return err
	}
	r.logger.Debug("collection ready", "kind", kind, "id", c.ID, "tracks", len(c.Tracks))
	return r.emit(ctx, cmd, c, format)
}

// Track fetches a single track.
func (r *Runner) Track(ctx context.Context, cmd *cli.Command) error {
	ref, format, err := lookup(cmd)
	if err != nil {
		return err
	}

	catalog, err := r.ensureCatalog()
	if err != nil {
		return err
	}

	track, err := catalog.Track(ctx, ref)
	if err != nil {
		return err
	}

	if format == formatter.FormatJSON && cmd.String("output") == "" {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	c := &models.Collection{
		ID:     track.ID,
		Kind:   services.KindTrack.String(),
		Name:   track.Name,
		Public: true,
		Tracks: []models.Track{services.TrackModel(*track, "", 1)},
	}
	return r.emit(ctx, cmd, c, format)
}

// Artist fetches an artist and loads its albums.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	ref, err := reference(cmd)
	if err != nil {
		return err
	}

	catalog, err := r.ensureCatalog()
	if err != nil {
		return err
	}

	artist, err := catalog.Artist(ctx, ref)
	if err != nil {
		return err
	}

	var albums []services.SpotifyAlbum
	if artist.Albums != nil {
		if albums, err = artist.Albums.Load(ctx, !cmd.Bool("first-page")); err != nil {
			return fmt.Errorf("failed to load albums: %w", err)
		}
	}

	if !cmd.Bool("text") {
		return r.writeJSON(artistOutput{SpotifyArtist: artist, Albums: albums}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(artist.Name)
	for i, a := range albums {
		year := a.ReleaseDate
		if len(year) > 4 {
			year = year[:4]
		}
		r.writePlain("%d. %s (%s) [%d tracks]\n", i+1, a.Name, year, a.TotalTracks)
	}
	return nil
}

// Discography fetches every album of an artist with its tracks.
func (r *Runner) Discography(ctx context.Context, cmd *cli.Command) error {
	ref, format, err := lookup(cmd)
	if err != nil {
		return err
	}

	catalog, err := r.ensureCatalog()
	if err != nil {
		return err
	}

	engine := tasks.NewCatalogEngine(catalog)
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.Discography(ctx, ref, !cmd.Bool("first-page"), progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	for _, a := range result.Albums {
		if a.Error != nil {
			r.logger.Warn("skipped album", "album", a.Album.Name, "error", a.Error)
		}
	}

	collections := result.Collections()
	if format == formatter.FormatJSON && cmd.String("output") == "" {
		return r.writeJSON(collections, cmd.Bool("pretty"))
	}

	for _, c := range collections {
		if err := r.emit(ctx, cmd, c, format); err != nil {
			return err
		}
	}
	return nil
}
