// package tasks implements the discovery and curation pipeline.
//
// The two engines are DiscoveryEngine, which expands a seed-artist set into
// a recommendation map via the metadata catalog, and CurationEngine, which
// classifies recommended artists by genre and builds streaming playlists
// from their top tracks. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
//
// Per-item failures (a seed, an artist, a bucket) are recorded in the
// operation's result and never abort the run; only a cancelled context stops
// an engine early, and whatever was accumulated up to that point is returned.
package tasks

import (
	"strings"
	"unicode"
)

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// NormalizeArtistName reduces an artist name to a canonical comparison key:
// lowercased, "the " prefix stripped, " & " folded to " and ", and anything
// that is not a letter, digit or space removed. Two spellings of the same
// act ("The Beatles", "Beatles") normalize to the same key.
func NormalizeArtistName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	name = strings.TrimPrefix(name, "the ")
	name = strings.ReplaceAll(name, " & ", " and ")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

// excludedArtistNames are placeholder entries that name no real act.
var excludedArtistNames = map[string]bool{
	"unknown":             true,
	"[unknown]":           true,
	"various artists":     true,
	"various":             true,
	"va":                  true,
	"v.a.":                true,
	"soundtrack":          true,
	"original soundtrack": true,
	"ost":                 true,
	"compilation":         true,
}

// shouldExcludeArtist reports whether a related-artist entry is junk:
// a placeholder name, a bracketed tag-fixup entry, or a name that is mostly
// non-ASCII (usually an encoding casualty in upstream metadata).
func shouldExcludeArtist(name string) bool {
	lower := strings.ToLower(name)
	if excludedArtistNames[lower] {
		return true
	}

	if strings.Contains(lower, "[") && strings.Contains(lower, "]") {
		return true
	}

	runes := []rune(name)
	if len(runes) == 0 {
		return true
	}
	nonASCII := 0
	for _, r := range runes {
		if r > 127 {
			nonASCII++
		}
	}
	return float64(nonASCII)/float64(len(runes)) > 0.5
}
