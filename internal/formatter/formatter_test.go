package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/oliverjern/genregenius/internal/models"
	"github.com/oliverjern/genregenius/internal/tasks"
)

func TestDiscoverySummary(t *testing.T) {
	result := &tasks.DiscoveryResult{
		Recommendations: models.RecommendationMap{
			"Alice Jones": {"Bob Smith", "Carol Danvers"},
			"The Combo":   {},
		},
		FailedSeeds:  []string{"Throttled Seed"},
		SkippedSeeds: []string{"Old Seed"},
		Processed:    2,
	}
	summary := NewDiscoverySummary(result, "/tmp/recommendations.json")

	t.Run("Counts", func(t *testing.T) {
		if summary.RecommendedTotal != 2 {
			t.Errorf("expected 2 recommended, got %d", summary.RecommendedTotal)
		}
		if summary.SourceArtists != 2 {
			t.Errorf("expected 2 source artists, got %d", summary.SourceArtists)
		}
	})

	t.Run("Text", func(t *testing.T) {
		text := string(summary.Text())
		for _, want := range []string{"Discovery complete", "Throttled Seed", "/tmp/recommendations.json"} {
			if !strings.Contains(text, want) {
				t.Errorf("text summary missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := summary.JSON()
		if err != nil {
			t.Fatalf("failed to render JSON: %v", err)
		}

		var decoded DiscoverySummary
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("summary JSON does not parse: %v", err)
		}
		if decoded.ProcessedSeeds != 2 || len(decoded.FailedSeeds) != 1 {
			t.Errorf("unexpected decoded summary %+v", decoded)
		}
	})
}

func TestCurationSummary(t *testing.T) {
	classification := &tasks.ClassificationResult{
		Buckets: []models.GenreBucket{
			{Genre: "Rock", Artists: []string{"A", "B"}},
			{Genre: models.FallbackGenre, Artists: []string{"C"}},
		},
		Unresolved: []string{"C"},
		CacheHits:  1,
	}
	build := &tasks.BuildResult{
		Playlists: []models.Playlist{
			{ID: "pl1", Name: "Rock Mix", TrackIDs: []string{"T1", "T2"}},
		},
		Skipped:       []tasks.SkippedBucket{{Genre: models.FallbackGenre, Reason: "no tracks found"}},
		FailedArtists: []string{"C"},
		TracksAdded:   2,
	}
	summary := NewCurationSummary(classification, build)

	t.Run("Counts", func(t *testing.T) {
		if summary.ArtistsClassified != 3 {
			t.Errorf("expected 3 artists classified, got %d", summary.ArtistsClassified)
		}
		if summary.GenreCounts["Rock"] != 2 {
			t.Errorf("expected 2 Rock artists, got %d", summary.GenreCounts["Rock"])
		}
	})

	t.Run("Text", func(t *testing.T) {
		text := string(summary.Text())
		for _, want := range []string{"Curation complete", "Rock Mix", "no tracks found", "failed top-track lookup"} {
			if !strings.Contains(text, want) {
				t.Errorf("text summary missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := summary.JSON()
		if err != nil {
			t.Fatalf("failed to render JSON: %v", err)
		}

		var decoded CurationSummary
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("summary JSON does not parse: %v", err)
		}
		if len(decoded.Playlists) != 1 || decoded.Playlists[0].Tracks != 2 {
			t.Errorf("unexpected decoded summary %+v", decoded)
		}
	})
}
