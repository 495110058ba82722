package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/oliverjern/genregenius/internal/formatter"
	"github.com/oliverjern/genregenius/internal/models"
	"github.com/oliverjern/genregenius/internal/shared"
	"github.com/oliverjern/genregenius/internal/store"
	"github.com/oliverjern/genregenius/internal/tasks"
)

// Discover runs the phase 1 crawl: look up related artists for every seed and
// save the recommendation artifact.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	if r.metadata == nil {
		return fmt.Errorf("%w: metadata service not initialized", shared.ErrServiceUnavailable)
	}

	seeds, err := r.loadSeeds(cmd)
	if err != nil {
		return err
	}

	artifacts := store.NewRecommendationStore(r.artifactPath(cmd), r.logger)

	var prior models.RecommendationMap
	if cmd.Bool("resume") && artifacts.Exists() {
		if prior, err = artifacts.Load(); err != nil {
			return fmt.Errorf("failed to load prior artifact: %w", err)
		}
		r.logger.Info("resuming discovery", "prior_seeds", len(prior))
	}

	maxPerSeed := cmd.Int("max-per-seed")
	if maxPerSeed <= 0 {
		maxPerSeed = r.config.Discovery.MaxRelatedPerSeed
	}

	r.writePlainHeader("Discovering Related Artists")
	r.writePlain("Seeds: %d, interval: %v\n\n", len(seeds), r.config.MetadataDelay())

	engine := tasks.NewDiscoveryEngine(r.metadata, r.logger)
	progress, stop := r.streamProgress()
	result, runErr := engine.Discover(ctx, seeds, prior, maxPerSeed, progress)
	stop()

	if result != nil && len(result.Recommendations) > 0 {
		if err := artifacts.Save(result.Recommendations); err != nil {
			if runErr != nil {
				r.logger.Error("failed to save partial artifact", "error", err)
			} else {
				return fmt.Errorf("failed to save artifact: %w", err)
			}
		}
	}
	if runErr != nil {
		return runErr
	}

	summary := formatter.NewDiscoverySummary(result, artifacts.Path())
	if cmd.Bool("json") {
		return r.writeJSON(summary, true)
	}
	return r.writePlain("%s", summary.Text())
}
