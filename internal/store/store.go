// Package store persists the recommendation artifact that hands discovery
// results over to the curation phase.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/oliverjern/genregenius/internal/models"
	"github.com/oliverjern/genregenius/internal/shared"
)

// RecommendationStore reads and writes a RecommendationMap as a single JSON
// file. Saves are atomic: the map is written to a temporary file in the same
// directory and renamed into place, so a crashed write never leaves a partial
// artifact for the next phase to read.
type RecommendationStore struct {
	path   string
	logger *log.Logger
}

// NewRecommendationStore creates a store backed by the file at path.
func NewRecommendationStore(path string, logger *log.Logger) *RecommendationStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RecommendationStore{path: path, logger: logger}
}

// Path returns the artifact location.
func (s *RecommendationStore) Path() string {
	return s.path
}

// Save writes the map atomically, creating parent directories as needed.
func (s *RecommendationStore) Save(m models.RecommendationMap) error {
	if m == nil {
		return fmt.Errorf("%w: nil recommendation map", shared.ErrInvalidInput)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize recommendation map: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close artifact: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace artifact: %w", err)
	}

	s.logger.Debug("saved recommendation artifact", "path", s.path, "sources", len(m))
	return nil
}

// Load reads the artifact back. A missing file surfaces ErrArtifactNotFound
// so callers can distinguish "never discovered" from a damaged artifact,
// which surfaces ErrCorruptArtifact.
func (s *RecommendationStore) Load() (models.RecommendationMap, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrArtifactNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", s.path, err)
	}

	var m models.RecommendationMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCorruptArtifact, s.path, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: %s: artifact is null", shared.ErrCorruptArtifact, s.path)
	}

	return m, nil
}

// Exists reports whether an artifact is present without parsing it.
func (s *RecommendationStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
