package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/oliverjern/genregenius/internal/repositories"
	"github.com/oliverjern/genregenius/internal/shared"
)

// CacheStats prints the number of cached genre resolutions.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	cache, cleanup, err := r.openGenreCache()
	if err != nil {
		return err
	}
	defer cleanup()

	count, err := cache.Count()
	if err != nil {
		return fmt.Errorf("failed to count cache entries: %w", err)
	}

	r.writePlain("Genre cache: %d artists (%s)\n", count, r.config.Database.Path)
	return nil
}

// CachePurge deletes every cached genre entry.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	cache, cleanup, err := r.openGenreCache()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cache.Purge(); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}

	r.writePlain("✓ Genre cache purged\n")
	return nil
}

func (r *Runner) openGenreCache() (*repositories.GenreCacheRepository, func(), error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return repositories.NewGenreCacheRepository(db), func() { db.Close() }, nil
}
