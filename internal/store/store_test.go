package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/oliverjern/genregenius/internal/models"
	"github.com/oliverjern/genregenius/internal/shared"
)

func TestRecommendationStore(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "recommendations.json")
		s := NewRecommendationStore(path, nil)

		m := models.RecommendationMap{
			"Alice Jones": {"Bob Smith", "Carol Danvers"},
			"The Combo":   {},
		}

		if err := s.Save(m); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := s.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !reflect.DeepEqual(models.RecommendationMap{
			"Alice Jones": {"Bob Smith", "Carol Danvers"},
			"The Combo":   {},
		}, loaded) {
			t.Errorf("round trip mismatch: %v", loaded)
		}
	})

	t.Run("Empty Entry Survives Round Trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "recommendations.json")
		s := NewRecommendationStore(path, nil)

		if err := s.Save(models.RecommendationMap{"Quiet Seed": {}}); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := s.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		related, ok := loaded["Quiet Seed"]
		if !ok {
			t.Fatal("empty entry dropped from artifact")
		}
		if len(related) != 0 {
			t.Errorf("expected empty related list, got %v", related)
		}
	})

	t.Run("Creates Parent Directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deeper", "recommendations.json")
		s := NewRecommendationStore(path, nil)

		if err := s.Save(models.RecommendationMap{"A": {"B"}}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if !s.Exists() {
			t.Error("artifact should exist after save")
		}
	})

	t.Run("Missing Artifact", func(t *testing.T) {
		s := NewRecommendationStore(filepath.Join(t.TempDir(), "absent.json"), nil)

		_, err := s.Load()
		if !errors.Is(err, shared.ErrArtifactNotFound) {
			t.Errorf("expected artifact not found, got %v", err)
		}
		if s.Exists() {
			t.Error("missing artifact should not report existing")
		}
	})

	t.Run("Corrupt Artifact", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "recommendations.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		_, err := NewRecommendationStore(path, nil).Load()
		if !errors.Is(err, shared.ErrCorruptArtifact) {
			t.Errorf("expected corrupt artifact, got %v", err)
		}
	})

	t.Run("Null Artifact Is Corrupt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "recommendations.json")
		if err := os.WriteFile(path, []byte("null"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		_, err := NewRecommendationStore(path, nil).Load()
		if !errors.Is(err, shared.ErrCorruptArtifact) {
			t.Errorf("expected corrupt artifact, got %v", err)
		}
	})

	t.Run("Save Overwrites Atomically", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "recommendations.json")
		s := NewRecommendationStore(path, nil)

		if err := s.Save(models.RecommendationMap{"A": {"B"}}); err != nil {
			t.Fatalf("first save failed: %v", err)
		}
		if err := s.Save(models.RecommendationMap{"A": {"C"}}); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		loaded, err := s.Load()
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(loaded["A"]) != 1 || loaded["A"][0] != "C" {
			t.Errorf("expected overwrite, got %v", loaded)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to read dir: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected no leftover temp files, found %d entries", len(entries))
		}
	})

	t.Run("Nil Map Rejected", func(t *testing.T) {
		s := NewRecommendationStore(filepath.Join(t.TempDir(), "r.json"), nil)
		if err := s.Save(nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
	})
}
