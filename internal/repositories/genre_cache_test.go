package repositories

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/oliverjern/genregenius/internal/models"
	"github.com/oliverjern/genregenius/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestGenreCacheRepository(t *testing.T) {
	t.Run("Miss", func(t *testing.T) {
		repo := NewGenreCacheRepository(setupTestDB(t))

		_, found, err := repo.Get("Alice Jones")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if found {
			t.Error("expected cache miss for unknown artist")
		}
	})

	t.Run("Put And Get", func(t *testing.T) {
		repo := NewGenreCacheRepository(setupTestDB(t))

		entry := models.GenreTags{
			Artist:  "Alice Jones",
			Primary: "Synth-Pop",
			Tags:    []string{"Synth-Pop", "Art Pop"},
			Source:  "musicbrainz",
		}
		if err := repo.Put(entry); err != nil {
			t.Fatalf("failed to put entry: %v", err)
		}

		got, found, err := repo.Get("Alice Jones")
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if !found {
			t.Fatal("expected cache hit")
		}
		if !reflect.DeepEqual(entry, *got) {
			t.Errorf("expected %+v, got %+v", entry, *got)
		}
	})

	t.Run("Lookup Is Case Insensitive", func(t *testing.T) {
		repo := NewGenreCacheRepository(setupTestDB(t))

		if err := repo.Put(models.GenreTags{Artist: "Bob Smith", Primary: "Blues"}); err != nil {
			t.Fatalf("failed to put entry: %v", err)
		}

		got, found, err := repo.Get("  bob smith ")
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if !found {
			t.Fatal("expected hit for differently cased lookup")
		}
		if got.Artist != "Bob Smith" {
			t.Errorf("expected original spelling preserved, got %q", got.Artist)
		}
	})

	t.Run("Put Replaces Existing Entry", func(t *testing.T) {
		repo := NewGenreCacheRepository(setupTestDB(t))

		if err := repo.Put(models.GenreTags{Artist: "Carol Danvers", Primary: "Rock"}); err != nil {
			t.Fatalf("failed to put first entry: %v", err)
		}
		if err := repo.Put(models.GenreTags{
			Artist:  "Carol Danvers",
			Primary: "Jazz",
			Tags:    []string{"Jazz"},
			Source:  "spotify",
		}); err != nil {
			t.Fatalf("failed to replace entry: %v", err)
		}

		got, found, err := repo.Get("Carol Danvers")
		if err != nil || !found {
			t.Fatalf("expected hit, got found=%v err=%v", found, err)
		}
		if got.Primary != "Jazz" || got.Source != "spotify" {
			t.Errorf("expected replacement to win, got %+v", got)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("expected single row after upsert, got %d", count)
		}
	})

	t.Run("Unresolved Artist Is Cacheable", func(t *testing.T) {
		repo := NewGenreCacheRepository(setupTestDB(t))

		if err := repo.Put(models.GenreTags{Artist: "Obscure Act", Primary: models.FallbackGenre}); err != nil {
			t.Fatalf("failed to put entry: %v", err)
		}

		got, found, err := repo.Get("Obscure Act")
		if err != nil || !found {
			t.Fatalf("expected hit, got found=%v err=%v", found, err)
		}
		if got.Primary != models.FallbackGenre {
			t.Errorf("expected fallback genre, got %q", got.Primary)
		}
		if len(got.Tags) != 0 {
			t.Errorf("expected no tags, got %v", got.Tags)
		}
	})

	t.Run("Empty Artist Rejected", func(t *testing.T) {
		repo := NewGenreCacheRepository(setupTestDB(t))
		if err := repo.Put(models.GenreTags{Artist: "  "}); err == nil {
			t.Error("expected error for blank artist")
		}
	})

	t.Run("Purge", func(t *testing.T) {
		repo := NewGenreCacheRepository(setupTestDB(t))

		for _, artist := range []string{"A", "B", "C"} {
			if err := repo.Put(models.GenreTags{Artist: artist, Primary: "Rock"}); err != nil {
				t.Fatalf("failed to put entry: %v", err)
			}
		}

		if err := repo.Purge(); err != nil {
			t.Fatalf("failed to purge: %v", err)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 0 {
			t.Errorf("expected empty cache after purge, got %d", count)
		}
	})
}
