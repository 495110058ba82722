package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/oliverjern/genregenius/internal/services"
	"github.com/oliverjern/genregenius/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	config.ApplyEnv()

	metadataService := services.NewMusicBrainzService(
		config.Contact.Email,
		services.NewPacer(config.MetadataDelay()),
		services.DefaultRetryPolicy(),
	)

	var streamingService services.StreamingService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		svc, err := services.NewSpotifyService(map[string]string{
			"client_id":     config.Credentials.Spotify.ClientID,
			"client_secret": config.Credentials.Spotify.ClientSecret,
			"redirect_uri":  config.Credentials.Spotify.RedirectURI,
		}, services.NewPacer(config.StreamingDelay()), services.DefaultRetryPolicy())
		if err == nil {
			if token := config.Credentials.Spotify.Token(); token != nil {
				svc.SetToken(token)
			}
			streamingService = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Metadata:  metadataService,
		Streaming: streamingService,
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "genregenius",
		Usage:    "Discover related artists and build genre playlists from your music library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
