package shared

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig parses embedded example", func(t *testing.T) {
		config := DefaultConfig()

		if config.Discovery.MaxRelatedPerSeed != 10 {
			t.Errorf("expected max_related_per_seed 10, got %d", config.Discovery.MaxRelatedPerSeed)
		}
		if config.MetadataDelay() != 6*time.Second {
			t.Errorf("expected 6s metadata delay, got %v", config.MetadataDelay())
		}
		if config.StreamingDelay() != 1200*time.Millisecond {
			t.Errorf("expected 1.2s streaming delay, got %v", config.StreamingDelay())
		}
	})

	t.Run("delays fall back when unset", func(t *testing.T) {
		config := &Config{}

		if config.MetadataDelay() != 6*time.Second {
			t.Errorf("expected default metadata delay, got %v", config.MetadataDelay())
		}
		if config.StreamingDelay() != 1200*time.Millisecond {
			t.Errorf("expected default streaming delay, got %v", config.StreamingDelay())
		}
	})

	t.Run("LoadConfig errors on missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("SaveConfig round trips token", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "id"
		config.Credentials.Spotify.Update(&oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		})

		if err := SaveConfig(config, path); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		token := loaded.Credentials.Spotify.Token()
		if token == nil {
			t.Fatal("expected saved token to load")
		}
		if token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Errorf("unexpected token: %+v", token)
		}
		if !token.Expiry.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
			t.Errorf("unexpected expiry: %v", token.Expiry)
		}
	})

	t.Run("Token returns nil without access token", func(t *testing.T) {
		spotify := SpotifyConfig{}
		if spotify.Token() != nil {
			t.Error("expected nil token")
		}
	})

	t.Run("ApplyEnv overrides credentials", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
		t.Setenv("MUSICBRAINZ_CONTACT", "env@example.com")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "file-id"
		config.ApplyEnv()

		if config.Credentials.Spotify.ClientID != "env-id" {
			t.Errorf("expected env to win, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Contact.Email != "env@example.com" {
			t.Errorf("expected contact override, got %s", config.Contact.Email)
		}
	})

	t.Run("CreateConfigFile refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("failed to create config: %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error for existing file")
		}
	})
}
