package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/oliverjern/genregenius/internal/server"
	"github.com/oliverjern/genregenius/internal/services"
	"github.com/oliverjern/genregenius/internal/shared"
)

// Auth runs the Spotify OAuth2 authorization code flow and saves the
// resulting token to the config file.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		loaded.ApplyEnv()
		config = loaded
	}

	creds := config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_id and client_secret must be set", shared.ErrMissingCredentials)
	}

	oauthService, ok := r.streaming.(services.OAuthService)
	if !ok {
		svc, err := services.NewSpotifyService(map[string]string{
			"client_id":     creds.ClientID,
			"client_secret": creds.ClientSecret,
			"redirect_uri":  creds.RedirectURI,
		}, services.NewPacer(config.StreamingDelay()), services.DefaultRetryPolicy())
		if err != nil {
			return err
		}
		r.streaming = svc
		oauthService = svc
	}

	token, err := r.doOAuth(config, oauthService, "authorization")
	if err != nil {
		return err
	}

	oauthService.SetToken(token)
	config.Credentials.Spotify.Update(token)
	if err := shared.SaveConfig(config, configPath); err != nil {
		r.logger.Warn("failed to save token to config", "error", err)
		r.writePlain("⚠ Token could not be saved, rerun auth next session\n")
		return nil
	}

	r.writePlain("✓ Spotify authorization complete\n")
	r.writePlain("Token saved to: %s\n", configPath)
	return nil
}

// doOAuth starts a temporary callback server, opens the browser to the
// authorization URL and waits for the token.
func (r *Runner) doOAuth(config *shared.Config, oauthService services.OAuthService, prefix string) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, err
	}

	authURL := oauthService.GetAuthURL(state)
	oauthHandler := server.NewOAuthHandler(oauthService.OAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	serverAddr, err := callbackAddr(config.Credentials.Spotify.RedirectURI)
	if err != nil {
		return nil, err
	}
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server for %s at %v", prefix, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify %s...\n", prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// callbackAddr extracts the listen address from the configured redirect URI.
func callbackAddr(redirectURI string) (string, error) {
	if redirectURI == "" {
		redirectURI = "http://127.0.0.1:8888/callback"
	}
	u, err := url.Parse(redirectURI)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: invalid redirect URI %q", shared.ErrInvalidConfig, redirectURI)
	}
	return u.Host, nil
}
