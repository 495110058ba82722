package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/oliverjern/genregenius/internal/services"
	"github.com/oliverjern/genregenius/internal/store"
)

func TestPipeline(t *testing.T) {
	ctx := context.Background()

	newPipeline := func(t *testing.T, metadata *mockMetadata, streaming *mockStreaming) (*Pipeline, *store.RecommendationStore) {
		t.Helper()
		artifacts := store.NewRecommendationStore(filepath.Join(t.TempDir(), "recommendations.json"), nil)
		discovery := NewDiscoveryEngine(metadata, nil)
		curation := NewCurationEngine(metadata, streaming, newMemoryGenreCache(), nil)
		return NewPipeline(discovery, curation, artifacts, nil), artifacts
	}

	t.Run("Runs All Phases", func(t *testing.T) {
		metadata := &mockMetadata{
			related: map[string][]services.RelatedArtist{
				"Alice Jones": ranked("Bob Smith"),
			},
			genres: map[string][]string{
				"Bob Smith": {"blues"},
			},
		}
		streaming := newMockStreaming()
		streaming.tracks["Bob Smith"] = []services.TopTrack{{ID: "t1", Title: "One"}}

		pipeline, artifacts := newPipeline(t, metadata, streaming)

		result, err := pipeline.Run(ctx, []string{"Alice Jones"}, PipelineOptions{}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !artifacts.Exists() {
			t.Error("expected artifact to be saved")
		}
		saved, err := artifacts.Load()
		if err != nil {
			t.Fatalf("failed to load artifact: %v", err)
		}
		if len(saved["Alice Jones"]) != 1 || saved["Alice Jones"][0] != "Bob Smith" {
			t.Errorf("unexpected artifact contents: %v", saved)
		}

		if result.Classification == nil || len(result.Classification.Buckets) != 1 {
			t.Fatalf("expected one genre bucket, got %+v", result.Classification)
		}
		if result.Build == nil || len(result.Build.Playlists) != 1 {
			t.Fatalf("expected one playlist, got %+v", result.Build)
		}
		if result.Build.Playlists[0].Name != "Blues Mix" {
			t.Errorf("expected Blues Mix, got %s", result.Build.Playlists[0].Name)
		}
	})

	t.Run("Resume Skips Prior Seeds", func(t *testing.T) {
		metadata := &mockMetadata{
			related: map[string][]services.RelatedArtist{
				"Alice Jones": ranked("Bob Smith"),
				"New Seed":    ranked("Carol King"),
			},
			genres: map[string][]string{
				"Bob Smith":  {"blues"},
				"Carol King": {"folk"},
			},
		}
		streaming := newMockStreaming()
		streaming.tracks["Bob Smith"] = []services.TopTrack{{ID: "t1", Title: "One"}}
		streaming.tracks["Carol King"] = []services.TopTrack{{ID: "t2", Title: "Two"}}

		pipeline, _ := newPipeline(t, metadata, streaming)

		if _, err := pipeline.Run(ctx, []string{"Alice Jones"}, PipelineOptions{}, nil); err != nil {
			t.Fatalf("first run failed: %v", err)
		}

		metadata.lookups = nil
		result, err := pipeline.Run(ctx, []string{"Alice Jones", "New Seed"}, PipelineOptions{Resume: true}, nil)
		if err != nil {
			t.Fatalf("resumed run failed: %v", err)
		}

		if len(metadata.lookups) != 1 || metadata.lookups[0] != "New Seed" {
			t.Errorf("expected only New Seed to be looked up, got %v", metadata.lookups)
		}
		if len(result.Discovery.Recommendations) != 2 {
			t.Errorf("expected both seeds in recommendations, got %v", result.Discovery.Recommendations)
		}
	})

	t.Run("Saves Partial Artifact On Cancellation", func(t *testing.T) {
		metadata := &mockMetadata{
			related: map[string][]services.RelatedArtist{
				"Alice Jones": ranked("Bob Smith"),
				"Zed Zebra":   ranked("Carol King"),
			},
		}

		cancelCtx, cancel := context.WithCancel(ctx)
		wrapped := &cancelAfterFirst{inner: metadata, cancel: cancel}

		artifacts := store.NewRecommendationStore(filepath.Join(t.TempDir(), "recommendations.json"), nil)
		discovery := NewDiscoveryEngine(wrapped, nil)
		curation := NewCurationEngine(metadata, newMockStreaming(), newMemoryGenreCache(), nil)
		pipeline := NewPipeline(discovery, curation, artifacts, nil)

		result, err := pipeline.Run(cancelCtx, []string{"Alice Jones", "Zed Zebra"}, PipelineOptions{}, nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}

		if !artifacts.Exists() {
			t.Error("expected partial artifact to be saved")
		}
		if result.Classification != nil || result.Build != nil {
			t.Error("expected later phases to be skipped after cancellation")
		}
	})
}
