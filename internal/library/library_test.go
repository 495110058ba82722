package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oliverjern/genregenius/internal/shared"
)

func TestDirectorySeedSource(t *testing.T) {
	t.Run("Reads Artist Directories", func(t *testing.T) {
		root := t.TempDir()
		for _, dir := range []string{"Bob Smith", "alice jones", "The Combo"} {
			if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
				t.Fatalf("failed to create dir: %v", err)
			}
		}
		if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}

		seeds, err := NewDirectorySeedSource(root).Seeds()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"alice jones", "Bob Smith", "The Combo"}
		if len(seeds) != len(want) {
			t.Fatalf("expected %d seeds, got %v", len(want), seeds)
		}
		for i, name := range want {
			if seeds[i] != name {
				t.Errorf("seed %d: expected %q, got %q", i, name, seeds[i])
			}
		}
	})

	t.Run("Skips Placeholders And Hidden Directories", func(t *testing.T) {
		root := t.TempDir()
		for _, dir := range []string{"Various Artists", "soundtrack", ".stversions", "Carol Danvers"} {
			if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
				t.Fatalf("failed to create dir: %v", err)
			}
		}

		seeds, err := NewDirectorySeedSource(root).Seeds()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(seeds) != 1 || seeds[0] != "Carol Danvers" {
			t.Errorf("expected only Carol Danvers, got %v", seeds)
		}
	})

	t.Run("Empty Library", func(t *testing.T) {
		_, err := NewDirectorySeedSource(t.TempDir()).Seeds()
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})

	t.Run("Missing Directory", func(t *testing.T) {
		_, err := NewDirectorySeedSource("/nonexistent/music").Seeds()
		if err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

func TestStaticSeedSource(t *testing.T) {
	seeds, err := NewStaticSeedSource([]string{"Alice Jones"}).Seeds()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(seeds) != 1 || seeds[0] != "Alice Jones" {
		t.Errorf("unexpected seeds %v", seeds)
	}

	if _, err := NewStaticSeedSource(nil).Seeds(); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}
