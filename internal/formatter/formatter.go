// package formatter renders run summaries to plain text and JSON.
//
// A run summary is the user-facing account of a pipeline run: what succeeded,
// what was skipped and why, and which items a resumed run should retry.
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/oliverjern/genregenius/internal/tasks"
)

// DiscoverySummary is the serializable account of a discovery run.
type DiscoverySummary struct {
	SourceArtists    int      `json:"source_artists"`
	ProcessedSeeds   int      `json:"processed_seeds"`
	SkippedSeeds     []string `json:"skipped_seeds,omitempty"`
	FailedSeeds      []string `json:"failed_seeds,omitempty"`
	RecommendedTotal int      `json:"recommended_total"`
	ArtifactPath     string   `json:"artifact_path,omitempty"`
}

// NewDiscoverySummary condenses a discovery result.
func NewDiscoverySummary(result *tasks.DiscoveryResult, artifactPath string) *DiscoverySummary {
	recommended := 0
	for _, related := range result.Recommendations {
		recommended += len(related)
	}
	return &DiscoverySummary{
		SourceArtists:    len(result.Recommendations),
		ProcessedSeeds:   result.Processed,
		SkippedSeeds:     result.SkippedSeeds,
		FailedSeeds:      result.FailedSeeds,
		RecommendedTotal: recommended,
		ArtifactPath:     artifactPath,
	}
}

// Text renders the summary for terminal output.
func (s *DiscoverySummary) Text() []byte {
	var buf bytes.Buffer

	buf.WriteString("Discovery complete\n")
	buf.WriteString(fmt.Sprintf("  Seeds processed:     %d\n", s.ProcessedSeeds))
	buf.WriteString(fmt.Sprintf("  Artists recommended: %d\n", s.RecommendedTotal))
	if len(s.SkippedSeeds) > 0 {
		buf.WriteString(fmt.Sprintf("  Seeds skipped (already discovered): %d\n", len(s.SkippedSeeds)))
	}
	if s.ArtifactPath != "" {
		buf.WriteString(fmt.Sprintf("  Artifact: %s\n", s.ArtifactPath))
	}

	if len(s.FailedSeeds) > 0 {
		buf.WriteString(fmt.Sprintf("\n%d seeds failed and will be retried on the next run:\n", len(s.FailedSeeds)))
		for _, seed := range s.FailedSeeds {
			buf.WriteString(fmt.Sprintf("  - %s\n", seed))
		}
	}

	return buf.Bytes()
}

// JSON renders the summary as indented JSON.
func (s *DiscoverySummary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// PlaylistSummary is one created playlist in a curation summary.
type PlaylistSummary struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Tracks int    `json:"tracks"`
}

// SkipSummary is one skipped genre bucket in a curation summary.
type SkipSummary struct {
	Genre  string `json:"genre"`
	Reason string `json:"reason"`
}

// CurationSummary is the serializable account of a curation run.
type CurationSummary struct {
	ArtistsClassified int               `json:"artists_classified"`
	GenreBuckets      int               `json:"genre_buckets"`
	GenreCounts       map[string]int    `json:"genre_counts,omitempty"`
	CacheHits         int               `json:"cache_hits"`
	Unresolved        []string          `json:"unresolved_artists,omitempty"`
	Playlists         []PlaylistSummary `json:"playlists"`
	Skipped           []SkipSummary     `json:"skipped_buckets,omitempty"`
	FailedArtists     []string          `json:"failed_artists,omitempty"`
	TracksAdded       int               `json:"tracks_added"`
}

// NewCurationSummary condenses classification and build results.
func NewCurationSummary(classification *tasks.ClassificationResult, build *tasks.BuildResult) *CurationSummary {
	summary := &CurationSummary{
		GenreBuckets: len(classification.Buckets),
		GenreCounts:  make(map[string]int, len(classification.Buckets)),
		CacheHits:    classification.CacheHits,
		Unresolved:   classification.Unresolved,
		Playlists:    make([]PlaylistSummary, 0, len(build.Playlists)),
		TracksAdded:  build.TracksAdded,
	}

	for _, bucket := range classification.Buckets {
		summary.ArtistsClassified += len(bucket.Artists)
		summary.GenreCounts[bucket.Genre] = len(bucket.Artists)
	}

	for _, playlist := range build.Playlists {
		summary.Playlists = append(summary.Playlists, PlaylistSummary{
			Name:   playlist.Name,
			ID:     playlist.ID,
			Tracks: len(playlist.TrackIDs),
		})
	}

	for _, skip := range build.Skipped {
		summary.Skipped = append(summary.Skipped, SkipSummary{Genre: skip.Genre, Reason: skip.Reason})
	}
	summary.FailedArtists = build.FailedArtists

	return summary
}

// Text renders the summary for terminal output. Genre counts are listed
// largest first, ties broken alphabetically.
func (s *CurationSummary) Text() []byte {
	var buf bytes.Buffer

	buf.WriteString("Curation complete\n")
	buf.WriteString(fmt.Sprintf("  Artists classified: %d (%d from cache)\n", s.ArtistsClassified, s.CacheHits))
	buf.WriteString(fmt.Sprintf("  Genre buckets:      %d\n", s.GenreBuckets))
	buf.WriteString(fmt.Sprintf("  Playlists created:  %d (%d tracks)\n", len(s.Playlists), s.TracksAdded))

	if len(s.GenreCounts) > 0 {
		type genreCount struct {
			genre string
			count int
		}
		counts := make([]genreCount, 0, len(s.GenreCounts))
		for genre, count := range s.GenreCounts {
			counts = append(counts, genreCount{genre, count})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].genre < counts[j].genre
		})

		buf.WriteString("\nArtists per genre:\n")
		for _, gc := range counts {
			buf.WriteString(fmt.Sprintf("  %-24s %d\n", gc.genre, gc.count))
		}
	}

	if len(s.Playlists) > 0 {
		buf.WriteString("\nPlaylists:\n")
		for _, playlist := range s.Playlists {
			buf.WriteString(fmt.Sprintf("  %s (%d tracks, id %s)\n", playlist.Name, playlist.Tracks, playlist.ID))
		}
	}

	if len(s.Skipped) > 0 {
		buf.WriteString("\nSkipped buckets:\n")
		for _, skip := range s.Skipped {
			buf.WriteString(fmt.Sprintf("  %s: %s\n", skip.Genre, skip.Reason))
		}
	}

	if len(s.FailedArtists) > 0 {
		buf.WriteString(fmt.Sprintf("\n%d artists failed top-track lookup:\n", len(s.FailedArtists)))
		for _, artist := range s.FailedArtists {
			buf.WriteString(fmt.Sprintf("  - %s\n", artist))
		}
	}

	return buf.Bytes()
}

// JSON renders the summary as indented JSON.
func (s *CurationSummary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// WriteSummaryFile writes a rendered summary to disk.
func WriteSummaryFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}
