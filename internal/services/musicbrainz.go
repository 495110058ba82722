// MusicBrainz API implementation of [MetadataService]
//
// Response types based on https://musicbrainz.org/doc/MusicBrainz_API
package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oliverjern/genregenius/internal/shared"
)

const defaultMusicBrainzBaseURL = "https://musicbrainz.org/ws/2"

// Relationship types that indicate a meaningful artistic connection.
// Order matters only for readability; relevance comes from the upstream.
var relatedArtistRelations = map[string]bool{
	"similar to":        true,
	"influenced by":     true,
	"collaborated with": true,
}

// MBArtist represents a MusicBrainz artist resource.
type MBArtist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type mbArtistSearchResponse struct {
	Artists []MBArtist `json:"artists"`
}

type mbRelation struct {
	Type   string   `json:"type"`
	Artist MBArtist `json:"artist"`
}

type mbGenre struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type mbArtistLookupResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Relations []mbRelation `json:"relations"`
	Genres    []mbGenre    `json:"genres"`
}

// MusicBrainzService implements [MetadataService] against the MusicBrainz
// web service. Every request is paced by a per-service [Pacer] and retried
// per [RetryPolicy]; MusicBrainz etiquette additionally requires a contact
// address in the User-Agent, attached to every request.
type MusicBrainzService struct {
	client *resty.Client
	pacer  *Pacer
	retry  RetryPolicy
}

// NewMusicBrainzService creates a MusicBrainz client identified by the given
// contact email.
func NewMusicBrainzService(contactEmail string, pacer *Pacer, retry RetryPolicy) *MusicBrainzService {
	if pacer == nil {
		pacer = NewPacer(6 * time.Second)
	}

	client := resty.New().
		SetBaseURL(defaultMusicBrainzBaseURL).
		SetHeader("User-Agent", fmt.Sprintf("genregenius/1.0 (%s)", contactEmail)).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &MusicBrainzService{
		client: client,
		pacer:  pacer,
		retry:  retry,
	}
}

// SetBaseURL overrides the API base URL. Used in tests.
func (m *MusicBrainzService) SetBaseURL(baseURL string) {
	m.client.SetBaseURL(baseURL)
}

func (m *MusicBrainzService) Name() string {
	return "MusicBrainz"
}

// get performs one paced, retried GET against the MusicBrainz API and
// decodes the JSON response into result.
func (m *MusicBrainzService) get(ctx context.Context, path string, params map[string]string, result any) error {
	return m.retry.Do(ctx, func(ctx context.Context) error {
		if err := m.pacer.Wait(ctx); err != nil {
			return err
		}

		resp, err := m.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetQueryParam("fmt", "json").
			SetResult(result).
			Get(path)
		if err != nil {
			return &TransientError{Cause: err}
		}

		return classifyStatus(resp.StatusCode(), resp.Header().Get("Retry-After"), resp.String())
	})
}

// classifyStatus maps an HTTP status to the error taxonomy. 429/503/504 are
// throttling signals per MusicBrainz rate-limit docs.
func classifyStatus(status int, retryAfter, body string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == 429 || status == 503 || status == 504:
		return &ThrottleError{Status: status, RetryAfter: parseRetryAfter(retryAfter)}
	case status >= 500:
		return &TransientError{Cause: fmt.Errorf("server error: status %d", status)}
	default:
		return &ClientError{Status: status, Body: body}
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(header, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// SearchArtist resolves an artist name to its best-scoring MusicBrainz entry.
func (m *MusicBrainzService) SearchArtist(ctx context.Context, artistName string) (*MBArtist, error) {
	var result mbArtistSearchResponse
	params := map[string]string{
		"query": fmt.Sprintf("artist:%s", strconv.Quote(artistName)),
		"limit": "1",
	}

	if err := m.get(ctx, "/artist", params, &result); err != nil {
		return nil, fmt.Errorf("artist search %q: %w", artistName, err)
	}

	if len(result.Artists) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrArtistNotFound, artistName)
	}

	return &result.Artists[0], nil
}

// LookupRelated finds the artist by name and walks its artist relationships,
// returning related artists ranked in the order MusicBrainz lists them.
func (m *MusicBrainzService) LookupRelated(ctx context.Context, artistName string) ([]RelatedArtist, error) {
	artist, err := m.SearchArtist(ctx, artistName)
	if err != nil {
		return nil, err
	}

	var result mbArtistLookupResponse
	path := fmt.Sprintf("/artist/%s", url.PathEscape(artist.ID))
	if err := m.get(ctx, path, map[string]string{"inc": "artist-rels"}, &result); err != nil {
		return nil, fmt.Errorf("artist relations %q: %w", artistName, err)
	}

	related := make([]RelatedArtist, 0, len(result.Relations))
	for i, rel := range result.Relations {
		if !relatedArtistRelations[rel.Type] || rel.Artist.Name == "" {
			continue
		}
		related = append(related, RelatedArtist{
			Name:  rel.Artist.Name,
			Score: 1 / float64(i+1),
		})
	}

	return related, nil
}

// ArtistGenres returns the artist's genre tags ordered by tag count, the
// upstream's confidence proxy.
func (m *MusicBrainzService) ArtistGenres(ctx context.Context, artistName string) ([]string, error) {
	artist, err := m.SearchArtist(ctx, artistName)
	if err != nil {
		return nil, err
	}

	var result mbArtistLookupResponse
	path := fmt.Sprintf("/artist/%s", url.PathEscape(artist.ID))
	if err := m.get(ctx, path, map[string]string{"inc": "genres"}, &result); err != nil {
		return nil, fmt.Errorf("artist genres %q: %w", artistName, err)
	}

	tags := append([]mbGenre(nil), result.Genres...)
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Count > tags[j].Count })

	genres := make([]string, 0, len(tags))
	for _, g := range tags {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}

	return genres, nil
}
