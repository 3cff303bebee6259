package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotx/internal/services"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive browser on an artist, or an album with --album.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	ref, err := reference(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/spotx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	catalog, err := r.ensureCatalog()
	if err != nil {
		return err
	}

	kind := services.KindArtist
	if cmd.Bool("album") {
		kind = services.KindAlbum
	}

	model, err := ui.NewModel(ctx, catalog, kind, ref, !cmd.Bool("first-page"))
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
