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

// RunPipeline executes the full pipeline: discovery, classification and
// playlist building in one invocation.
func (r *Runner) RunPipeline(ctx context.Context, cmd *cli.Command) error {
	pipeline, seeds, cleanup, err := r.buildPipeline(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := tasks.PipelineOptions{
		MaxPerSeed:   r.config.Discovery.MaxRelatedPerSeed,
		MaxTracks:    r.config.Playlists.MaxTracksPerPlaylist,
		TopPerArtist: r.config.Playlists.TopTracksPerArtist,
		Resume:       cmd.Bool("resume"),
	}

	r.writePlainHeader("GenreGenius Pipeline")
	r.writePlain("Seeds: %d\n\n", len(seeds))

	progress, stop := r.streamProgress()
	result, err := pipeline.Run(ctx, seeds, opts, progress)
	stop()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(formatter.NewCurationSummary(result.Classification, result.Build), true)
	}

	r.writePlain("%s", formatter.NewDiscoverySummary(result.Discovery, result.ArtifactPath).Text())
	r.writePlain("\n")
	return r.writePlain("%s", formatter.NewCurationSummary(result.Classification, result.Build).Text())
}

// buildPipeline wires the engines, artifact store and genre cache for a full
// run. The returned cleanup closes the database.
func (r *Runner) buildPipeline(cmd *cli.Command) (*tasks.Pipeline, []string, func(), error) {
	if r.metadata == nil {
		return nil, nil, nil, fmt.Errorf("%w: metadata service not initialized", shared.ErrServiceUnavailable)
	}
	if r.streaming == nil {
		return nil, nil, nil, fmt.Errorf("%w: Spotify service not initialized, check credentials in config.toml", shared.ErrServiceUnavailable)
	}
	if r.config.Credentials.Spotify.Token() == nil {
		return nil, nil, nil, fmt.Errorf("%w: run 'genregenius auth' first", shared.ErrNotAuthenticated)
	}

	seeds, err := r.loadSeeds(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	artifacts := store.NewRecommendationStore(r.artifactPath(cmd), r.logger)
	discovery := tasks.NewDiscoveryEngine(r.metadata, r.logger)
	curation := tasks.NewCurationEngine(r.metadata, r.streaming, repositories.NewGenreCacheRepository(db), r.logger)
	pipeline := tasks.NewPipeline(discovery, curation, artifacts, r.logger)

	return pipeline, seeds, func() { db.Close() }, nil
}
