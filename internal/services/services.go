// package services defines interfaces for the external music catalogs
//
// MusicBrainz (metadata), Spotify (streaming)
package services

import (
	"context"

	"golang.org/x/oauth2"
)

// RelatedArtist is one entry of a ranked related-artist lookup.
type RelatedArtist struct {
	Name  string
	Score float64 // Upstream relevance; higher is more relevant
}

// TopTrack is one entry of a ranked top-track lookup.
type TopTrack struct {
	ID    string
	Title string
}

// MetadataService is the metadata catalog consumed by the discovery engine.
type MetadataService interface {
	// LookupRelated returns artists related to the named artist, ranked by
	// upstream relevance. A missing artist surfaces shared.ErrArtistNotFound
	// (wrapped in shared.ErrClient semantics, never retried).
	LookupRelated(ctx context.Context, artistName string) ([]RelatedArtist, error)

	// ArtistGenres returns the genre tags for the named artist, most
	// confident first. An artist without tags returns an empty slice.
	ArtistGenres(ctx context.Context, artistName string) ([]string, error)

	// Name returns the service name (e.g., "MusicBrainz")
	Name() string
}

// StreamingService is the streaming catalog consumed by the curation engine.
type StreamingService interface {
	// Authenticate performs OAuth or token-based authentication.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// ArtistGenres returns the genre tags the service attributes to the
	// named artist, most confident first.
	ArtistGenres(ctx context.Context, artistName string) ([]string, error)

	// TopTracks returns up to limit of the artist's tracks, ranked by the
	// service's popularity metric.
	TopTracks(ctx context.Context, artistName string, limit int) ([]TopTrack, error)

	// CreatePlaylist creates an empty playlist and returns its
	// server-assigned identifier.
	CreatePlaylist(ctx context.Context, name, description string) (string, error)

	// AddTracks appends tracks to a playlist, batching internally to respect
	// the service's per-call limit.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// Name returns the service name (e.g., "Spotify")
	Name() string
}

// OAuthService is implemented by streaming services that authenticate with
// the OAuth2 authorization code flow.
type OAuthService interface {
	// GetAuthURL returns the authorization URL the user visits to grant
	// access, carrying the given CSRF state token.
	GetAuthURL(state string) string

	// OAuthConfig returns the underlying OAuth2 configuration, used by the
	// callback handler to exchange the authorization code.
	OAuthConfig() *oauth2.Config

	// SetToken installs a previously obtained token.
	SetToken(token *oauth2.Token)
}
