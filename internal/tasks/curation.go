package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/oliverjern/genregenius/internal/models"
	"github.com/oliverjern/genregenius/internal/services"
	"github.com/oliverjern/genregenius/internal/shared"
)

// SamplerPlaylistName names the playlist built from the fallback bucket.
const SamplerPlaylistName = "Discovery Sampler"

// GenreCache is the persistent artist-to-genre cache consulted before any
// network lookup. Implemented by repositories.GenreCacheRepository.
type GenreCache interface {
	Get(artist string) (*models.GenreTags, bool, error)
	Put(tags models.GenreTags) error
}

// ClassificationResult contains all data from a classification run.
type ClassificationResult struct {
	Buckets    []models.GenreBucket // Ordered by first assignment; fallback bucket included when non-empty
	Unresolved []string             // Artists placed in the fallback bucket because lookups failed
	CacheHits  int
}

// SkippedBucket records a genre bucket that produced no playlist.
type SkippedBucket struct {
	Genre  string
	Reason string
}

// BuildResult contains all data from a playlist build run.
type BuildResult struct {
	Playlists     []models.Playlist // Created playlists with their final track lists
	Skipped       []SkippedBucket   // Buckets that produced no playlist
	FailedArtists []string          // Artists whose top-track lookup failed
	TracksAdded   int
	TracksDeduped int // Tracks dropped as duplicates within a bucket
}

// CurationEngine classifies recommended artists by genre and builds one
// streaming playlist per genre bucket.
type CurationEngine struct {
	metadata  services.MetadataService
	streaming services.StreamingService
	cache     GenreCache
	logger    *log.Logger
}

// NewCurationEngine creates a new CurationEngine with the provided services.
// cache may be nil, in which case every artist is resolved over the network.
func NewCurationEngine(metadata services.MetadataService, streaming services.StreamingService, cache GenreCache, logger *log.Logger) *CurationEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CurationEngine{
		metadata:  metadata,
		streaming: streaming,
		cache:     cache,
		logger:    logger,
	}
}

// Classify groups artists into genre buckets.
//
// Each artist is resolved through the cache, then the metadata catalog, then
// the streaming service, and assigned to the bucket of its first normalized
// tag. Artists with no usable tags, or whose every lookup fails, land in the
// reserved fallback bucket. Bucket order is first-assignment order, so the
// same input sequence always yields the same buckets. Every input artist
// ends up in exactly one bucket; lookup failures never abort the run.
func (e *CurationEngine) Classify(ctx context.Context, artists []string, progress chan<- ProgressUpdate) (*ClassificationResult, error) {
	result := &ClassificationResult{}

	bucketIndex := make(map[string]int)
	assign := func(genre, artist string) {
		idx, ok := bucketIndex[genre]
		if !ok {
			idx = len(result.Buckets)
			bucketIndex[genre] = idx
			result.Buckets = append(result.Buckets, models.GenreBucket{Genre: genre})
		}
		result.Buckets[idx].Artists = append(result.Buckets[idx].Artists, artist)
	}

	total := len(artists)
	for i, artist := range artists {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sendProgress(progress, classifyUpdate(i+1, total, artist))

		tags, failed, err := e.resolveGenres(ctx, artist)
		if err != nil {
			return result, err
		}

		genre := models.FallbackGenre
		if tags.Primary != "" {
			genre = tags.Primary
		}
		if failed {
			result.Unresolved = append(result.Unresolved, artist)
		}
		if tags.cached {
			result.CacheHits++
		}

		assign(genre, artist)
		sendProgress(progress, classifiedUpdate(i+1, total, artist, genre))
	}

	return result, nil
}

type resolvedGenres struct {
	Primary string
	Tags    []string
	cached  bool
}

// resolveGenres returns an artist's normalized genre tags. The second return
// value reports whether resolution failed outright (as opposed to the artist
// genuinely having no tags). Only a cancelled context is returned as an error.
func (e *CurationEngine) resolveGenres(ctx context.Context, artist string) (resolvedGenres, bool, error) {
	if e.cache != nil {
		cached, ok, err := e.cache.Get(artist)
		if err != nil {
			e.logger.Warn("genre cache read failed", "artist", artist, "error", err)
		} else if ok {
			return resolvedGenres{Primary: cached.Primary, Tags: cached.Tags, cached: true}, false, nil
		}
	}

	tags, source, failed, err := e.lookupGenres(ctx, artist)
	if err != nil {
		return resolvedGenres{}, false, err
	}

	normalized := normalizeGenres(tags)
	primary := models.FallbackGenre
	if len(normalized) > 0 {
		primary = normalized[0]
	}

	if e.cache != nil && !failed {
		entry := models.GenreTags{Artist: artist, Primary: primary, Tags: normalized, Source: source}
		if err := e.cache.Put(entry); err != nil {
			e.logger.Warn("genre cache write failed", "artist", artist, "error", err)
		}
	}

	return resolvedGenres{Primary: primary, Tags: normalized}, failed, nil
}

// lookupGenres queries the metadata catalog first and falls back to the
// streaming service when the catalog has no tags for the artist.
func (e *CurationEngine) lookupGenres(ctx context.Context, artist string) (tags []string, source string, failed bool, err error) {
	mbTags, mbErr := e.metadata.ArtistGenres(ctx, artist)
	if isCancellation(mbErr) {
		return nil, "", false, mbErr
	}
	if mbErr == nil && len(mbTags) > 0 {
		return mbTags, e.metadata.Name(), false, nil
	}
	if mbErr != nil {
		e.logger.Debug("metadata genre lookup failed", "artist", artist, "error", mbErr)
	}

	spTags, spErr := e.streaming.ArtistGenres(ctx, artist)
	if isCancellation(spErr) {
		return nil, "", false, spErr
	}
	if spErr == nil {
		return spTags, e.streaming.Name(), false, nil
	}
	e.logger.Debug("streaming genre lookup failed", "artist", artist, "error", spErr)

	// Both lookups failed. The artist still gets classified (into the
	// fallback bucket), but the result is not cached: a later run with a
	// healthier upstream should retry.
	return nil, "", mbErr != nil && spErr != nil, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Build creates one playlist per non-empty genre bucket.
//
// For each bucket it fetches up to topPerArtist top tracks per artist in
// bucket order, deduplicates by track ID across the bucket, interleaves the
// per-artist lists round-robin and truncates to maxTracks. Buckets that end
// up with no tracks are reported as skipped; nothing is created for them.
// The fallback bucket's playlist gets a reserved name, every other playlist
// is named after its genre.
func (e *CurationEngine) Build(ctx context.Context, buckets []models.GenreBucket, maxTracks, topPerArtist int, progress chan<- ProgressUpdate) (*BuildResult, error) {
	if maxTracks <= 0 {
		maxTracks = 100
	}
	if topPerArtist <= 0 {
		topPerArtist = 5
	}

	result := &BuildResult{}
	total := len(buckets)

	for i, bucket := range buckets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if len(bucket.Artists) == 0 {
			result.Skipped = append(result.Skipped, SkippedBucket{Genre: bucket.Genre, Reason: "no artists"})
			sendProgress(progress, playlistSkippedUpdate(i+1, total, bucket.Genre, "no artists"))
			continue
		}

		trackIDs, deduped, failedArtists, err := e.collectTracks(ctx, bucket, maxTracks, topPerArtist, progress, i+1, total)
		result.FailedArtists = append(result.FailedArtists, failedArtists...)
		result.TracksDeduped += deduped
		if err != nil {
			return result, err
		}

		if len(trackIDs) == 0 {
			result.Skipped = append(result.Skipped, SkippedBucket{Genre: bucket.Genre, Reason: "no tracks found"})
			sendProgress(progress, playlistSkippedUpdate(i+1, total, bucket.Genre, "no tracks found"))
			e.logger.Warn("bucket produced no tracks", "genre", bucket.Genre, "artists", len(bucket.Artists))
			continue
		}

		name := playlistName(bucket)
		playlistID, err := e.streaming.CreatePlaylist(ctx, name, playlistDescription(bucket))
		if err != nil {
			if isCancellation(err) {
				return result, err
			}
			result.Skipped = append(result.Skipped, SkippedBucket{Genre: bucket.Genre, Reason: fmt.Sprintf("playlist creation failed: %v", err)})
			e.logger.Error("failed to create playlist", "name", name, "error", err)
			continue
		}

		if err := e.streaming.AddTracks(ctx, playlistID, trackIDs); err != nil {
			if isCancellation(err) {
				return result, err
			}
			result.Skipped = append(result.Skipped, SkippedBucket{Genre: bucket.Genre, Reason: fmt.Sprintf("adding tracks failed: %v", err)})
			e.logger.Error("failed to add tracks", "name", name, "error", err)
			continue
		}

		result.Playlists = append(result.Playlists, models.Playlist{
			ID:       playlistID,
			Name:     name,
			TrackIDs: trackIDs,
		})
		result.TracksAdded += len(trackIDs)
		sendProgress(progress, playlistCreatedUpdate(i+1, total, name, len(trackIDs)))
		e.logger.Info("playlist created", "name", name, "id", playlistID, "tracks", len(trackIDs))
	}

	return result, nil
}

// collectTracks fetches, deduplicates and interleaves a bucket's tracks.
func (e *CurationEngine) collectTracks(ctx context.Context, bucket models.GenreBucket, maxTracks, topPerArtist int, progress chan<- ProgressUpdate, step, total int) ([]string, int, []string, error) {
	perArtist := make([][]string, 0, len(bucket.Artists))
	seen := make(map[string]bool)
	deduped := 0
	var failedArtists []string

	for _, artist := range bucket.Artists {
		if err := ctx.Err(); err != nil {
			return nil, deduped, failedArtists, err
		}

		sendProgress(progress, fetchTracksUpdate(step, total, artist, bucket.Genre))

		tracks, err := e.streaming.TopTracks(ctx, artist, topPerArtist)
		if err != nil {
			if isCancellation(err) {
				return nil, deduped, failedArtists, err
			}
			e.logger.Warn("top tracks lookup failed", "artist", artist, "error", err)
			failedArtists = append(failedArtists, artist)
			continue
		}

		ids := make([]string, 0, len(tracks))
		for _, track := range tracks {
			if seen[track.ID] {
				deduped++
				continue
			}
			seen[track.ID] = true
			ids = append(ids, track.ID)
		}
		if len(ids) > 0 {
			perArtist = append(perArtist, ids)
		}
	}

	return interleave(perArtist, maxTracks), deduped, failedArtists, nil
}

// interleave merges per-artist track lists round-robin, in artist order,
// truncated to max. Keeping the rotation order fixed makes the output a
// function of its input alone.
func interleave(perArtist [][]string, max int) []string {
	var merged []string
	for round := 0; ; round++ {
		added := false
		for _, tracks := range perArtist {
			if round >= len(tracks) {
				continue
			}
			merged = append(merged, tracks[round])
			added = true
			if len(merged) >= max {
				return merged
			}
		}
		if !added {
			return merged
		}
	}
}

func playlistName(bucket models.GenreBucket) string {
	if bucket.IsFallback() {
		return SamplerPlaylistName
	}
	return bucket.Genre + " Mix"
}

func playlistDescription(bucket models.GenreBucket) string {
	if bucket.IsFallback() {
		return "A sampler of new artists picked by GenreGenius from your music collection."
	}
	return fmt.Sprintf("A %s playlist created by GenreGenius based on your music collection.", bucket.Genre)
}
