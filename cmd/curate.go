package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/oliverjern/genregenius/internal/formatter"
	"github.com/oliverjern/genregenius/internal/repositories"
	"github.com/oliverjern/genregenius/internal/shared"
	"github.com/oliverjern/genregenius/internal/store"
	"github.com/oliverjern/genregenius/internal/tasks"
)

// Curate runs phase 2: classify the discovered artists by genre and build a
// Spotify playlist per genre bucket.
func (r *Runner) Curate(ctx context.Context, cmd *cli.Command) error {
	if r.metadata == nil {
		return fmt.Errorf("%w: metadata service not initialized", shared.ErrServiceUnavailable)
	}
	if r.streaming == nil {
		return fmt.Errorf("%w: Spotify service not initialized, check credentials in config.toml", shared.ErrServiceUnavailable)
	}
	if r.config.Credentials.Spotify.Token() == nil {
		return fmt.Errorf("%w: run 'genregenius auth' first", shared.ErrNotAuthenticated)
	}

	artifacts := store.NewRecommendationStore(r.artifactPath(cmd), r.logger)
	recommendations, err := artifacts.Load()
	if err != nil {
		return fmt.Errorf("run 'genregenius discover' first: %w", err)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	cache := repositories.NewGenreCacheRepository(db)
	engine := tasks.NewCurationEngine(r.metadata, r.streaming, cache, r.logger)

	artists := recommendations.AllRecommended()
	r.writePlainHeader("Curating Playlists")
	r.writePlain("Artists to classify: %d\n\n", len(artists))

	progress, stop := r.streamProgress()
	classification, err := engine.Classify(ctx, artists, progress)
	if err != nil {
		stop()
		return err
	}

	maxTracks := cmd.Int("max-tracks")
	if maxTracks <= 0 {
		maxTracks = r.config.Playlists.MaxTracksPerPlaylist
	}
	topPerArtist := cmd.Int("top-per-artist")
	if topPerArtist <= 0 {
		topPerArtist = r.config.Playlists.TopTracksPerArtist
	}

	build, err := engine.Build(ctx, classification.Buckets, maxTracks, topPerArtist, progress)
	stop()
	if err != nil {
		return err
	}

	summary := formatter.NewCurationSummary(classification, build)
	if cmd.Bool("json") {
		return r.writeJSON(summary, true)
	}
	return r.writePlain("%s", summary.Text())
}
