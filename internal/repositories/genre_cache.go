// package repositories provides the persistence layer for the curation phase.
//
// The genre cache stores resolved genre tags per artist so repeated or
// resumed runs skip network lookups for artists already classified.
package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oliverjern/genregenius/internal/models"
)

// GenreCacheRepository persists [models.GenreTags] keyed by normalized
// artist name. Lookups are case-insensitive; the original spelling is kept
// alongside the key for reporting.
type GenreCacheRepository struct {
	db *sql.DB
}

// NewGenreCacheRepository creates a new GenreCacheRepository with the given database connection
func NewGenreCacheRepository(db *sql.DB) *GenreCacheRepository {
	return &GenreCacheRepository{db: db}
}

// cacheKey normalizes an artist name for lookup.
func cacheKey(artist string) string {
	return strings.ToLower(strings.TrimSpace(artist))
}

// Get retrieves cached genre tags for an artist. The second return value is
// false on a cache miss.
func (r *GenreCacheRepository) Get(artist string) (*models.GenreTags, bool, error) {
	query := `
		SELECT artist_name, primary_genre, genres, source
		FROM genre_cache
		WHERE artist_key = ?
	`

	var (
		name, primary, genresJSON, source string
	)

	err := r.db.QueryRow(query, cacheKey(artist)).Scan(&name, &primary, &genresJSON, &source)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query genre cache: %w", err)
	}

	var tags []string
	if err := json.Unmarshal([]byte(genresJSON), &tags); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached genres for %s: %w", name, err)
	}

	return &models.GenreTags{
		Artist:  name,
		Primary: primary,
		Tags:    tags,
		Source:  source,
	}, true, nil
}

// Put stores or replaces the cached genre tags for an artist.
func (r *GenreCacheRepository) Put(tags models.GenreTags) error {
	if strings.TrimSpace(tags.Artist) == "" {
		return fmt.Errorf("genre cache entry requires an artist name")
	}

	genresJSON, err := json.Marshal(tags.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode genres: %w", err)
	}
	if tags.Tags == nil {
		genresJSON = []byte("[]")
	}

	query := `
		INSERT INTO genre_cache (artist_key, artist_name, primary_genre, genres, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(artist_key) DO UPDATE SET
			artist_name = excluded.artist_name,
			primary_genre = excluded.primary_genre,
			genres = excluded.genres,
			source = excluded.source,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	_, err = r.db.Exec(query,
		cacheKey(tags.Artist),
		tags.Artist,
		tags.Primary,
		string(genresJSON),
		tags.Source,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert genre cache entry: %w", err)
	}

	return nil
}

// Count returns the number of cached artists.
func (r *GenreCacheRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM genre_cache").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count genre cache: %w", err)
	}
	return count, nil
}

// Purge removes all cached entries. Used when upstream tagging has changed
// enough that stale classifications would mislead.
func (r *GenreCacheRepository) Purge() error {
	if _, err := r.db.Exec("DELETE FROM genre_cache"); err != nil {
		return fmt.Errorf("failed to purge genre cache: %w", err)
	}
	return nil
}
