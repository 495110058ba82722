package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/oliverjern/genregenius/internal/shared"
	"github.com/oliverjern/genregenius/internal/tasks"
	"github.com/oliverjern/genregenius/internal/ui"
)

// TUI launches the interactive terminal UI for the discovery and curation
// pipeline.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/genregenius-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	pipeline, seeds, cleanup, err := r.buildPipeline(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := tasks.PipelineOptions{
		MaxPerSeed:   r.config.Discovery.MaxRelatedPerSeed,
		MaxTracks:    r.config.Playlists.MaxTracksPerPlaylist,
		TopPerArtist: r.config.Playlists.TopTracksPerArtist,
	}

	model := ui.NewModel(ctx, seeds, pipeline, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
