package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Contact     ContactConfig     `toml:"contact"`
	Credentials CredentialsConfig `toml:"credentials"`
	Discovery   DiscoveryConfig   `toml:"discovery"`
	Playlists   PlaylistConfig    `toml:"playlists"`
	Library     LibraryConfig     `toml:"library"`
	Database    DatabaseConfig    `toml:"database"`
}

// ContactConfig identifies the caller to upstream services.
// MusicBrainz etiquette requires contact info in the User-Agent.
type ContactConfig struct {
	Email string `toml:"email"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and, after `genregenius
// auth`, the saved OAuth token.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AccessToken  string `toml:"access_token,omitempty"`
	RefreshToken string `toml:"refresh_token,omitempty"`
	TokenExpiry  string `toml:"token_expiry,omitempty"`
}

// Update stores an OAuth token on the config so it can be saved to disk.
func (s *SpotifyConfig) Update(token *oauth2.Token) {
	s.AccessToken = token.AccessToken
	s.RefreshToken = token.RefreshToken
	if token.Expiry.IsZero() {
		s.TokenExpiry = ""
	} else {
		s.TokenExpiry = token.Expiry.Format(time.RFC3339)
	}
}

// Token rebuilds the saved OAuth token, or nil when none is saved.
func (s *SpotifyConfig) Token() *oauth2.Token {
	if s.AccessToken == "" {
		return nil
	}
	token := &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
	}
	if s.TokenExpiry != "" {
		if expiry, err := time.Parse(time.RFC3339, s.TokenExpiry); err == nil {
			token.Expiry = expiry
		}
	}
	return token
}

// DiscoveryConfig tunes the phase 1 metadata crawl.
type DiscoveryConfig struct {
	// MinRequestDelayMS is the minimum interval between consecutive
	// MusicBrainz requests, in milliseconds.
	MinRequestDelayMS int    `toml:"min_request_delay_ms"`
	MaxRelatedPerSeed int    `toml:"max_related_per_seed"`
	ArtifactPath      string `toml:"artifact_path"`
	SaveInLibraryDir  bool   `toml:"save_in_library_dir"`
	MaxSourceArtists  int    `toml:"max_source_artists"`
}

// PlaylistConfig tunes the phase 2 curation run.
type PlaylistConfig struct {
	// MinRequestDelayMS is the minimum interval between consecutive
	// Spotify requests, in milliseconds.
	MinRequestDelayMS    int `toml:"min_request_delay_ms"`
	MaxTracksPerPlaylist int `toml:"max_tracks_per_playlist"`
	TopTracksPerArtist   int `toml:"top_tracks_per_artist"`
}

// LibraryConfig locates the local music library used for seed artists.
type LibraryConfig struct {
	Dir string `toml:"dir"`
}

// DatabaseConfig contains genre cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
// Credentials may be overridden afterwards by environment variables (see ApplyEnv).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes the configuration back to path as TOML.
func SaveConfig(c *Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ApplyEnv overlays credentials from a .env file (if present) and the process
// environment. Environment values win over the TOML file so secrets can stay
// out of checked-in configuration.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		c.Credentials.Spotify.RedirectURI = v
	}
	if v := os.Getenv("MUSICBRAINZ_CONTACT"); v != "" {
		c.Contact.Email = v
	}
}

// MetadataDelay returns the configured minimum interval between MusicBrainz
// requests, falling back to the default when unset.
func (c *Config) MetadataDelay() time.Duration {
	if c.Discovery.MinRequestDelayMS <= 0 {
		return 6 * time.Second
	}
	return time.Duration(c.Discovery.MinRequestDelayMS) * time.Millisecond
}

// StreamingDelay returns the configured minimum interval between Spotify
// requests, falling back to the default when unset.
func (c *Config) StreamingDelay() time.Duration {
	if c.Playlists.MinRequestDelayMS <= 0 {
		return 1200 * time.Millisecond
	}
	return time.Duration(c.Playlists.MinRequestDelayMS) * time.Millisecond
}
