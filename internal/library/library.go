// Package library enumerates seed artists from a local music collection.
//
// A collection is expected to be organized one directory per artist; the
// scanner reads immediate subdirectory names and treats each as an artist.
// Compilation placeholders ("Various Artists" and friends) are dropped since
// they name no real artist.
package library

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/oliverjern/genregenius/internal/shared"
)

// SeedSource supplies the artist names used as discovery starting points.
// Implementations may read a directory tree, a config file, or CLI flags.
type SeedSource interface {
	Seeds() ([]string, error)
}

// compilationPlaceholders are directory names that stand in for many artists
// and should never seed a discovery run.
var compilationPlaceholders = map[string]bool{
	"various artists":     true,
	"various":             true,
	"va":                  true,
	"v.a.":                true,
	"soundtrack":          true,
	"original soundtrack": true,
	"soundtracks":         true,
	"compilations":        true,
	"unknown artist":      true,
}

// DirectorySeedSource reads seed artists from the immediate subdirectories
// of a music library root.
type DirectorySeedSource struct {
	root string
}

// NewDirectorySeedSource creates a seed source rooted at dir.
func NewDirectorySeedSource(dir string) *DirectorySeedSource {
	return &DirectorySeedSource{root: dir}
}

// Seeds returns the artist names found in the library root, sorted
// case-insensitively. Hidden directories and compilation placeholders are
// skipped. A readable root with no artist directories is an input error: the
// pipeline has nothing to work from.
func (d *DirectorySeedSource) Seeds() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read library directory %s: %w", d.root, err)
	}

	var seeds []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := strings.TrimSpace(entry.Name())
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}
		if compilationPlaceholders[strings.ToLower(name)] {
			continue
		}

		seeds = append(seeds, name)
	}

	if len(seeds) == 0 {
		return nil, fmt.Errorf("%w: no artist directories in %s", shared.ErrInvalidInput, d.root)
	}

	sort.Slice(seeds, func(i, j int) bool {
		return strings.ToLower(seeds[i]) < strings.ToLower(seeds[j])
	})

	return seeds, nil
}

// StaticSeedSource wraps a fixed list of artist names, for runs seeded from
// flags or tests rather than a library scan.
type StaticSeedSource struct {
	names []string
}

// NewStaticSeedSource creates a seed source from the given names.
func NewStaticSeedSource(names []string) *StaticSeedSource {
	return &StaticSeedSource{names: names}
}

func (s *StaticSeedSource) Seeds() ([]string, error) {
	if len(s.names) == 0 {
		return nil, fmt.Errorf("%w: no seed artists given", shared.ErrInvalidInput)
	}
	return append([]string(nil), s.names...), nil
}
