// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/oliverjern/genregenius/internal/models"
	"github.com/oliverjern/genregenius/internal/services"
	"github.com/oliverjern/genregenius/internal/shared"
)

// MockMetadata is a configurable test double for [services.MetadataService].
// Artists absent from Related surface as not found.
type MockMetadata struct {
	Related map[string][]services.RelatedArtist
	Genres  map[string][]string
	Lookups []string
}

func (m *MockMetadata) LookupRelated(ctx context.Context, artistName string) ([]services.RelatedArtist, error) {
	m.Lookups = append(m.Lookups, artistName)
	if related, ok := m.Related[artistName]; ok {
		return related, nil
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrArtistNotFound, artistName)
}

func (m *MockMetadata) ArtistGenres(ctx context.Context, artistName string) ([]string, error) {
	return m.Genres[artistName], nil
}

func (m *MockMetadata) Name() string { return "mock-metadata" }

// MockStreaming is a configurable test double for [services.StreamingService].
// Created playlists and added tracks are recorded for assertions.
type MockStreaming struct {
	Genres  map[string][]string
	Tracks  map[string][]services.TopTrack
	Created []models.Playlist
	Added   map[string][]string
}

func (m *MockStreaming) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockStreaming) ArtistGenres(ctx context.Context, artistName string) ([]string, error) {
	if genres, ok := m.Genres[artistName]; ok {
		return genres, nil
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrArtistNotFound, artistName)
}

func (m *MockStreaming) TopTracks(ctx context.Context, artistName string, limit int) ([]services.TopTrack, error) {
	tracks := m.Tracks[artistName]
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

func (m *MockStreaming) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	id := fmt.Sprintf("pl%d", len(m.Created)+1)
	m.Created = append(m.Created, models.Playlist{ID: id, Name: name, Description: description})
	return id, nil
}

func (m *MockStreaming) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if m.Added == nil {
		m.Added = make(map[string][]string)
	}
	m.Added[playlistID] = append(m.Added[playlistID], trackIDs...)
	return nil
}

func (m *MockStreaming) Name() string { return "mock-streaming" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
