package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/oliverjern/genregenius/internal/models"
	"github.com/oliverjern/genregenius/internal/shared"
	"github.com/oliverjern/genregenius/internal/store"
)

// Pipeline chains discovery, classification and playlist building into a
// single run, persisting the recommendation artifact between phases.
type Pipeline struct {
	discovery *DiscoveryEngine
	curation  *CurationEngine
	artifacts *store.RecommendationStore
	logger    *log.Logger
}

// PipelineOptions tunes a full pipeline run. Zero values fall back to the
// engine defaults.
type PipelineOptions struct {
	MaxPerSeed   int
	MaxTracks    int
	TopPerArtist int
	Resume       bool
}

// PipelineResult aggregates the per-phase results of a pipeline run. Phases
// that did not run are nil.
type PipelineResult struct {
	Discovery      *DiscoveryResult
	Classification *ClassificationResult
	Build          *BuildResult
	ArtifactPath   string
}

// NewPipeline creates a pipeline over the given engines and artifact store.
func NewPipeline(discovery *DiscoveryEngine, curation *CurationEngine, artifacts *store.RecommendationStore, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Pipeline{
		discovery: discovery,
		curation:  curation,
		artifacts: artifacts,
		logger:    logger,
	}
}

// Run executes discovery for the given seeds, saves the recommendation
// artifact, then classifies and builds playlists from it. The artifact is
// saved even when a later phase fails or the run is cancelled, so a
// subsequent run with Resume set picks up where this one stopped.
func (p *Pipeline) Run(ctx context.Context, seeds []string, opts PipelineOptions, progress chan<- ProgressUpdate) (*PipelineResult, error) {
	logger := shared.WithLogger(p.logger, "run_id", shared.GenerateID())
	logger.Info("pipeline starting", "seeds", len(seeds), "resume", opts.Resume)

	result := &PipelineResult{ArtifactPath: p.artifacts.Path()}

	var prior models.RecommendationMap
	if opts.Resume && p.artifacts.Exists() {
		m, err := p.artifacts.Load()
		if err != nil {
			return result, fmt.Errorf("failed to load prior artifact: %w", err)
		}
		prior = m
		logger.Info("resuming discovery", "prior_seeds", len(prior))
	}

	discovery, discoverErr := p.discovery.Discover(ctx, seeds, prior, opts.MaxPerSeed, progress)
	result.Discovery = discovery

	if discovery != nil && len(discovery.Recommendations) > 0 {
		if err := p.artifacts.Save(discovery.Recommendations); err != nil {
			if discoverErr != nil {
				logger.Error("failed to save partial artifact", "error", err)
				return result, discoverErr
			}
			return result, fmt.Errorf("failed to save artifact: %w", err)
		}
	}
	if discoverErr != nil {
		return result, discoverErr
	}

	classification, err := p.curation.Classify(ctx, discovery.Recommendations.AllRecommended(), progress)
	result.Classification = classification
	if err != nil {
		return result, err
	}

	build, err := p.curation.Build(ctx, classification.Buckets, opts.MaxTracks, opts.TopPerArtist, progress)
	result.Build = build
	if err != nil {
		return result, err
	}

	return result, nil
}
