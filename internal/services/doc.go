// Package services implements the rate-limited clients for both upstream
// catalogs.
//
// Each upstream gets an independent [Pacer] enforcing the minimum
// inter-request interval, plus a [RetryPolicy] handling throttling
// (Retry-After aware, bounded escalating backoff) and transient network
// failures (bounded fixed-delay retries). Malformed-request responses are
// surfaced immediately and never retried. Errors unwrap to the sentinels in
// internal/shared so callers can route per-item failures without string
// matching.
//
// [MusicBrainzService] is the metadata catalog used for related-artist
// discovery and first-choice genre tags; [SpotifyService] is the streaming
// catalog used for fallback genres, top tracks and playlist writes.
package services
