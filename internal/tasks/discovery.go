package tasks

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/oliverjern/genregenius/internal/models"
	"github.com/oliverjern/genregenius/internal/services"
	"github.com/oliverjern/genregenius/internal/shared"
)

// DiscoveryResult contains all data from a discovery run.
type DiscoveryResult struct {
	Recommendations models.RecommendationMap // Completed entries, including prior ones on resume
	FailedSeeds     []string                 // Seeds whose lookup exhausted retries; candidates for a resumed run
	SkippedSeeds    []string                 // Seeds already present in the prior map (resume)
	Processed       int                      // Seeds looked up this run
}

// DiscoveryEngine expands a seed-artist set into a recommendation map via
// the metadata catalog.
type DiscoveryEngine struct {
	metadata services.MetadataService
	logger   *log.Logger
}

// NewDiscoveryEngine creates a new DiscoveryEngine with the provided service.
func NewDiscoveryEngine(metadata services.MetadataService, logger *log.Logger) *DiscoveryEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &DiscoveryEngine{metadata: metadata, logger: logger}
}

// Discover looks up related artists for each seed and merges the filtered
// results into a recommendation map.
//
// Seeds are processed in case-insensitive alphabetical order so identical
// inputs and upstream responses always produce the same map. Each seed's raw
// related list is filtered in rank order: self-matches, seed-set matches,
// placeholder names, artists already recommended for an earlier seed and
// per-seed duplicates are dropped, then the remainder is truncated to
// maxPerSeed. A seed left with nothing still gets an empty entry so a later
// run can tell "processed, nothing found" from "never processed".
//
// prior may carry the map from an earlier run; its seeds are skipped and its
// recommendations count toward cross-seed deduplication. A seed whose lookup
// exhausts retries is recorded in FailedSeeds and the run continues.
// Cancellation is honored between seeds; the partial result is returned
// alongside the context error.
func (e *DiscoveryEngine) Discover(ctx context.Context, seeds []string, prior models.RecommendationMap, maxPerSeed int, progress chan<- ProgressUpdate) (*DiscoveryResult, error) {
	if maxPerSeed <= 0 {
		maxPerSeed = 10
	}

	ordered := prepareSeeds(seeds)

	result := &DiscoveryResult{
		Recommendations: make(models.RecommendationMap, len(ordered)+len(prior)),
	}

	// Seed-set exclusion covers both raw lowercase and normalized spellings
	// so "The Combo" also blocks "Combo".
	seedKeys := make(map[string]bool, len(ordered)*2)
	for _, seed := range ordered {
		seedKeys[strings.ToLower(strings.TrimSpace(seed))] = true
		seedKeys[NormalizeArtistName(seed)] = true
	}

	// Artists recommended for any seed, in this run or a prior one.
	globalSeen := make(map[string]bool)
	priorSeeds := make(map[string]bool, len(prior))
	for source, related := range prior {
		result.Recommendations[source] = append([]string(nil), related...)
		priorSeeds[strings.ToLower(strings.TrimSpace(source))] = true
		for _, artist := range related {
			globalSeen[NormalizeArtistName(artist)] = true
		}
	}

	total := len(ordered)
	for i, seed := range ordered {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if priorSeeds[strings.ToLower(strings.TrimSpace(seed))] {
			result.SkippedSeeds = append(result.SkippedSeeds, seed)
			continue
		}

		sendProgress(progress, seedProcessingUpdate(i+1, total, seed))

		related, err := e.metadata.LookupRelated(ctx, seed)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			if errors.Is(err, shared.ErrRateLimited) || errors.Is(err, shared.ErrTransient) {
				e.logger.Warn("seed lookup failed, will retry next run", "seed", seed, "error", err)
				result.FailedSeeds = append(result.FailedSeeds, seed)
				sendProgress(progress, seedFailedUpdate(i+1, total, seed, err))
				continue
			}
			// Not found or rejected by the catalog. There is nothing to
			// resume here, so record an empty entry and move on.
			e.logger.Debug("seed yielded no catalog entry", "seed", seed, "error", err)
			related = nil
		}

		filtered := filterRelated(seed, related, seedKeys, globalSeen, maxPerSeed)
		result.Recommendations[seed] = filtered
		result.Processed++

		sendProgress(progress, seedProcessedUpdate(i+1, total, seed, len(filtered)))
		e.logger.Info("seed processed", "seed", seed, "recommended", len(filtered))
	}

	return result, nil
}

// prepareSeeds drops blank, placeholder and duplicate seeds, then orders the
// remainder case-insensitively.
func prepareSeeds(seeds []string) []string {
	seen := make(map[string]bool, len(seeds))
	ordered := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		seed = strings.TrimSpace(seed)
		if seed == "" || shouldExcludeArtist(seed) {
			continue
		}
		key := strings.ToLower(seed)
		if seen[key] {
			continue
		}
		seen[key] = true
		ordered = append(ordered, seed)
	}

	sort.Slice(ordered, func(i, j int) bool {
		return strings.ToLower(ordered[i]) < strings.ToLower(ordered[j])
	})

	return ordered
}

// filterRelated applies the recommendation filter pipeline to one seed's
// ranked related-artist list. globalSeen is updated with accepted artists.
func filterRelated(seed string, related []services.RelatedArtist, seedKeys, globalSeen map[string]bool, maxPerSeed int) []string {
	seedNorm := NormalizeArtistName(seed)
	usedHere := make(map[string]bool, maxPerSeed)
	filtered := make([]string, 0, maxPerSeed)

	for _, candidate := range related {
		name := strings.TrimSpace(candidate.Name)
		if name == "" {
			continue
		}

		norm := NormalizeArtistName(name)
		if norm == "" || norm == seedNorm {
			continue
		}
		if seedKeys[strings.ToLower(name)] || seedKeys[norm] {
			continue
		}
		if shouldExcludeArtist(name) {
			continue
		}
		if globalSeen[norm] || usedHere[norm] {
			continue
		}

		filtered = append(filtered, name)
		usedHere[norm] = true
		globalSeen[norm] = true

		if len(filtered) >= maxPerSeed {
			break
		}
	}

	return filtered
}
