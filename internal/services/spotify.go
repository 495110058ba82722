// Spotify API implementation of [StreamingService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oliverjern/genregenius/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify caps tracks-per-add; the playlist builder batches writes to
	// stay under it.
	spotifyAddTracksBatchSize = 50
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Genres     []string       `json:"genres"`
	Popularity int            `json:"popularity"`
	Images     []SpotifyImage `json:"images"`
	URI        string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type spotifyArtistSearchResponse struct {
	Artists struct {
		Items []SpotifyArtist `json:"items"`
	} `json:"artists"`
}

type spotifyTopTracksResponse struct {
	Tracks []SpotifyTrack `json:"tracks"`
}

type spotifyPlaylistResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyErrorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService implements [StreamingService] for the Spotify Web API.
// Uses [oauth2] for authentication; requests are paced by a dedicated
// [Pacer], independent of the MusicBrainz limiter.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	pacer      *Pacer
	retry      RetryPolicy
	baseURL    string
	userID     string
	artistIDs  map[string]string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string, pacer *Pacer, retry RetryPolicy) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://127.0.0.1:8888/callback"
	}

	if pacer == nil {
		pacer = NewPacer(1200 * time.Millisecond)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-modify-public",
			"playlist-modify-private",
			"user-read-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		pacer:      pacer,
		retry:      retry,
		baseURL:    spotifyBaseURL,
		artistIDs:  make(map[string]string),
	}, nil
}

// Authenticate performs OAuth2 authentication with Spotify. Expects either an "access_token" or "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{AccessToken: accessToken}
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
		}
		s.token = token
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

// SetToken installs a previously obtained OAuth2 token.
func (s *SpotifyService) SetToken(token *oauth2.Token) {
	s.token = token
}

// SetHTTPClient overrides the HTTP client. Used in tests.
func (s *SpotifyService) SetHTTPClient(client *http.Client) {
	s.httpClient = client
}

// SetBaseURL overrides the API base URL. Used in tests.
func (s *SpotifyService) SetBaseURL(baseURL string) {
	s.baseURL = baseURL
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig exposes the OAuth2 configuration for the callback server.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// doRequest performs one paced, retried, authenticated request to the
// Spotify API. Every attempt, including failing ones, consumes a pacer slot.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	return s.retry.Do(ctx, func(ctx context.Context) error {
		if err := s.pacer.Wait(ctx); err != nil {
			return err
		}

		var reqBody io.Reader
		if body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request body: %w", err)
			}
			reqBody = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return &TransientError{Cause: err}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &TransientError{Cause: err}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var apiErr spotifyErrorResponse
			message := strings.TrimSpace(string(data))
			if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
				message = apiErr.Error.Message
			}
			return classifyStatus(resp.StatusCode, resp.Header.Get("Retry-After"), message)
		}

		if result != nil && len(data) > 0 {
			if err := json.Unmarshal(data, result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}

		return nil
	})
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchArtist resolves an artist name to its best Spotify match, rejecting
// results whose names share fewer than half their words with the query.
func (s *SpotifyService) SearchArtist(ctx context.Context, artistName string) (*SpotifyArtist, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("artist:%q", artistName))
	query.Set("type", "artist")
	query.Set("limit", "3")

	var result spotifyArtistSearchResponse
	if err := s.doRequest(ctx, http.MethodGet, "/search?"+query.Encode(), nil, &result); err != nil {
		return nil, err
	}

	if len(result.Artists.Items) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrArtistNotFound, artistName)
	}

	artist := result.Artists.Items[0]
	if !plausibleArtistMatch(artistName, artist.Name) {
		return nil, fmt.Errorf("%w: no close match for %q", shared.ErrArtistNotFound, artistName)
	}

	return &artist, nil
}

// plausibleArtistMatch guards against search returning an unrelated artist:
// the names must match, contain each other, or share at least half of the
// query's words.
func plausibleArtistMatch(query, found string) bool {
	q, f := strings.ToLower(query), strings.ToLower(found)
	if q == f || strings.Contains(f, q) || strings.Contains(q, f) {
		return true
	}

	queryWords := strings.Fields(q)
	foundWords := make(map[string]bool)
	for _, w := range strings.Fields(f) {
		foundWords[w] = true
	}

	matched := 0
	for _, w := range queryWords {
		if foundWords[w] {
			matched++
		}
	}
	return len(queryWords) > 0 && matched*2 >= len(queryWords)
}

// artistID resolves and memoizes the Spotify ID for an artist name.
func (s *SpotifyService) artistID(ctx context.Context, artistName string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(artistName))
	if id, ok := s.artistIDs[key]; ok {
		return id, nil
	}

	artist, err := s.SearchArtist(ctx, artistName)
	if err != nil {
		return "", err
	}

	s.artistIDs[key] = artist.ID
	return artist.ID, nil
}

// ArtistGenres returns the genre tags Spotify attributes to the artist.
func (s *SpotifyService) ArtistGenres(ctx context.Context, artistName string) ([]string, error) {
	artist, err := s.SearchArtist(ctx, artistName)
	if err != nil {
		return nil, err
	}
	s.artistIDs[strings.ToLower(strings.TrimSpace(artistName))] = artist.ID
	return artist.Genres, nil
}

// TopTracks returns up to limit of the artist's top tracks in Spotify's
// popularity order.
func (s *SpotifyService) TopTracks(ctx context.Context, artistName string, limit int) ([]TopTrack, error) {
	if limit <= 0 {
		limit = 5
	}

	id, err := s.artistID(ctx, artistName)
	if err != nil {
		return nil, err
	}

	var result spotifyTopTracksResponse
	endpoint := fmt.Sprintf("/artists/%s/top-tracks", url.PathEscape(id))
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}

	tracks := make([]TopTrack, 0, limit)
	for _, t := range result.Tracks {
		if t.ID == "" {
			continue
		}
		tracks = append(tracks, TopTrack{ID: t.ID, Title: t.Name})
		if len(tracks) >= limit {
			break
		}
	}

	return tracks, nil
}

// CreatePlaylist creates an empty public playlist for the authenticated user
// and returns its server-assigned ID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	if s.userID == "" {
		user, err := s.UserProfile(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to resolve user: %w", err)
		}
		s.userID = user.ID
	}

	body := map[string]any{
		"name":        name,
		"public":      true,
		"description": description,
	}

	var playlist spotifyPlaylistResponse
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(s.userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return "", err
	}

	if playlist.ID == "" {
		return "", fmt.Errorf("playlist creation returned no id")
	}

	return playlist.ID, nil
}

// AddTracks appends tracks to a playlist in batches respecting Spotify's
// per-call limit. Track IDs are converted to track URIs.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	for start := 0; start < len(trackIDs); start += spotifyAddTracksBatchSize {
		end := start + spotifyAddTracksBatchSize
		if end > len(trackIDs) {
			end = len(trackIDs)
		}

		uris := make([]string, 0, end-start)
		for _, id := range trackIDs[start:end] {
			uris = append(uris, "spotify:track:"+id)
		}

		body := map[string]any{"uris": uris}
		if err := s.doRequest(ctx, http.MethodPost, endpoint, body, nil); err != nil {
			return fmt.Errorf("failed to add tracks %d-%d: %w", start, end-1, err)
		}
	}

	return nil
}
