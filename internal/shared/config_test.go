package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./setlist_to_playlist.db" {
			t.Errorf("expected database path ./setlist_to_playlist.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Global.SetlistsDir != "./setlists" {
			t.Errorf("expected setlists dir ./setlists, got %s", config.Global.SetlistsDir)
		}

		if config.Credentials.SetlistFM.BaseURL != "https://api.setlist.fm/rest/1.0" {
			t.Errorf("expected setlist.fm base URL, got %s", config.Credentials.SetlistFM.BaseURL)
		}

		if config.Credentials.SetlistFM.NumRetries != 5 {
			t.Errorf("expected retry budget 5, got %d", config.Credentials.SetlistFM.NumRetries)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		err = CreateConfigFile(configPath)
		if err == nil {
			t.Fatal("creating config file again should fail")
		}
		if !strings.Contains(err.Error(), "already exists") {
			t.Errorf("expected already-exists error, got %v", err)
		}
		if strings.Contains(err.Error(), "%!w") {
			t.Errorf("error should not wrap a nil cause, got %v", err)
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[global]
setlists_dir = "/data/setlists"
concerts_dir = "/data/concerts"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[credentials.setlistfm]
api_key = "test_api_key"
num_retries = 3
retriable_errors = ["Too Many Requests"]
rate_limit = 1.0

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Credentials.SetlistFM.APIKey != "test_api_key" {
			t.Errorf("expected setlist.fm api key test_api_key, got %s", config.Credentials.SetlistFM.APIKey)
		}

		if config.Credentials.SetlistFM.NumRetries != 3 {
			t.Errorf("expected retry budget 3, got %d", config.Credentials.SetlistFM.NumRetries)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("SaveConfig round trips", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Credentials.SetlistFM.APIKey = "saved_key"
		config.Credentials.Spotify.AccessToken = "saved_token"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		if loaded.Credentials.SetlistFM.APIKey != "saved_key" {
			t.Errorf("expected api key saved_key, got %s", loaded.Credentials.SetlistFM.APIKey)
		}
		if loaded.Credentials.Spotify.AccessToken != "saved_token" {
			t.Errorf("expected access token saved_token, got %s", loaded.Credentials.Spotify.AccessToken)
		}
	})
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Map returns credentials", func(t *testing.T) {
		config := SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "http://localhost:3000/callback",
		}

		m := config.Map()
		if m["client_id"] != "id" {
			t.Errorf("expected client_id id, got %s", m["client_id"])
		}
		if m["client_secret"] != "secret" {
			t.Errorf("expected client_secret secret, got %s", m["client_secret"])
		}
		if m["redirect_uri"] != "http://localhost:3000/callback" {
			t.Errorf("expected redirect_uri, got %s", m["redirect_uri"])
		}
	})

	t.Run("Token", func(t *testing.T) {
		t.Run("returns nil without access token", func(t *testing.T) {
			config := SpotifyConfig{}
			if config.Token() != nil {
				t.Error("expected nil token when no access token stored")
			}
		})

		t.Run("reconstructs stored token", func(t *testing.T) {
			expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
			config := SpotifyConfig{
				AccessToken:  "access",
				RefreshToken: "refresh",
				TokenExpiry:  expiry.Format(time.RFC3339),
			}

			token := config.Token()
			if token == nil {
				t.Fatal("expected token")
			}
			if token.AccessToken != "access" {
				t.Errorf("expected access token, got %s", token.AccessToken)
			}
			if token.RefreshToken != "refresh" {
				t.Errorf("expected refresh token, got %s", token.RefreshToken)
			}
			if !token.Expiry.Equal(expiry) {
				t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("stores token fields", func(t *testing.T) {
			config := SpotifyConfig{RefreshToken: "old_refresh"}

			token := &oauth2.Token{
				AccessToken: "new_access",
				Expiry:      time.Now().Add(time.Hour),
			}

			if err := config.Update(token); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if config.AccessToken != "new_access" {
				t.Errorf("expected access token new_access, got %s", config.AccessToken)
			}
			// Spotify omits the refresh token on renewal, the stored one is kept
			if config.RefreshToken != "old_refresh" {
				t.Errorf("expected refresh token to be preserved, got %s", config.RefreshToken)
			}
			if config.TokenExpiry == "" {
				t.Error("expected expiry to be stored")
			}
		})

		t.Run("rejects nil token", func(t *testing.T) {
			config := SpotifyConfig{}
			if err := config.Update(nil); err == nil {
				t.Error("expected error for nil token")
			}
		})
	})
}
