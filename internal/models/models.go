// package models defines the data model for the discovery and curation pipeline
package models

import (
	"sort"
	"strings"
)

// FallbackGenre is the reserved bucket label for artists whose genre tags
// could not be resolved.
const FallbackGenre = "unknown"

// RecommendationMap is the persisted hand-off artifact between the discovery
// and curation phases: source artist name → filtered related artist names.
// Each artist list preserves the upstream relevance ordering and contains no
// duplicates, no self-matches and no seed-set matches (case-insensitive).
type RecommendationMap map[string][]string

// SourceArtists returns the map's keys ordered case-insensitively, the same
// ordering discovery processes seeds in.
func (m RecommendationMap) SourceArtists() []string {
	artists := make([]string, 0, len(m))
	for artist := range m {
		artists = append(artists, artist)
	}
	sort.Slice(artists, func(i, j int) bool {
		return strings.ToLower(artists[i]) < strings.ToLower(artists[j])
	})
	return artists
}

// AllRecommended returns every recommended artist across all entries,
// deduplicated case-insensitively, in source-artist order then relevance
// order. This is the input set for genre classification.
func (m RecommendationMap) AllRecommended() []string {
	seen := make(map[string]struct{})
	var artists []string
	for _, source := range m.SourceArtists() {
		for _, artist := range m[source] {
			key := strings.ToLower(strings.TrimSpace(artist))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			artists = append(artists, artist)
		}
	}
	return artists
}

// GenreBucket groups recommended artists sharing a resolved genre label.
// Artists is unique and ordered by first assignment.
type GenreBucket struct {
	Genre   string   `json:"genre"`
	Artists []string `json:"artists"`
}

// IsFallback reports whether this is the reserved catch-all bucket.
func (b GenreBucket) IsFallback() bool {
	return b.Genre == FallbackGenre
}

// Playlist represents a playlist created on the streaming service.
type Playlist struct {
	ID          string // Server-assigned after creation
	Name        string
	Description string
	TrackIDs    []string
}

// GenreTags is a cached genre resolution for an artist.
type GenreTags struct {
	Artist  string
	Primary string
	Tags    []string
	Source  string // "musicbrainz", "spotify" or "" when unresolved
}
