package main

import (
	"context"
	"os"
	"time"

	"github.com/jmpegna/setlist-to-playlist/internal/services"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	var catalog services.Catalog
	if config.Credentials.SetlistFM.APIKey != "" {
		client := services.NewRetryClient(nil, retryPolicy(config.Credentials.SetlistFM), logger)
		if svc, err := services.NewSetlistFMService(config.Credentials.SetlistFM.BaseURL, config.Credentials.SetlistFM.APIKey, client); err == nil {
			catalog = svc
		} else {
			logger.Warn("failed to create setlist.fm service", "error", err)
		}
	}

	var spotify services.OAuthService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map(), logger); err == nil {
			spotify = svc
		} else {
			logger.Warn("failed to create Spotify service", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    catalog,
		Spotify:    spotify,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "s2p",
		Usage:    "Resolve concert setlists and build Spotify playlists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// retryPolicy derives the catalog retry policy from config, falling back to
// defaults for omitted values.
func retryPolicy(cfg shared.SetlistFMConfig) services.RetryPolicy {
	policy := services.DefaultRetryPolicy()

	if cfg.NumRetries > 0 {
		policy.NumRetries = cfg.NumRetries
	}
	if len(cfg.RetriableErrors) > 0 {
		policy.RetriableErrors = cfg.RetriableErrors
	}
	if cfg.BackoffSeconds > 0 {
		policy.Backoff = time.Duration(cfg.BackoffSeconds * float64(time.Second))
	}
	if cfg.MaxBackoffSeconds > 0 {
		policy.MaxBackoff = time.Duration(cfg.MaxBackoffSeconds * float64(time.Second))
	}
	if cfg.RateLimit > 0 {
		policy.RateLimit = cfg.RateLimit
	}

	return policy
}
