package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "spottube.db" {
			t.Errorf("expected database path spottube.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.RedirectURI != "http://localhost:3000/callback" {
			t.Errorf("unexpected redirect URI: %s", config.Credentials.Spotify.RedirectURI)
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

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:8080/callback"

[credentials.youtube]
api_key = "test_api_key"
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

		if config.Credentials.YouTube.APIKey != "test_api_key" {
			t.Errorf("expected youtube api key test_api_key, got %s", config.Credentials.YouTube.APIKey)
		}
	})

	t.Run("LoadConfigMissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfigInvalidTOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("this is not toml ["), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("EnvironmentOverridesFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[credentials.spotify]
client_id = "file_client_id"
client_secret = "file_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		t.Setenv("SPOTIFY_CLIENT_ID", "env_client_id")
		t.Setenv("YOUTUBE_KEY", "env_api_key")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "env_client_id" {
			t.Errorf("environment should win, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "file_secret" {
			t.Errorf("file value should survive when env is unset, got %s", config.Credentials.Spotify.ClientSecret)
		}
		if config.Credentials.YouTube.APIKey != "env_api_key" {
			t.Errorf("expected env api key, got %s", config.Credentials.YouTube.APIKey)
		}
	})

	t.Run("SpotifyCredentialsMap", func(t *testing.T) {
		creds := SpotifyConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "uri"}
		m := creds.Map()

		if m["client_id"] != "id" || m["client_secret"] != "secret" || m["redirect_uri"] != "uri" {
			t.Errorf("unexpected map: %v", m)
		}
	})
}

func TestLoadEnv(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")

	if err := os.WriteFile(envPath, []byte("SPOTIFY_CLIENT_SECRET=dotenv_secret\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	t.Setenv("SPOTIFY_CLIENT_SECRET", "")
	os.Unsetenv("SPOTIFY_CLIENT_SECRET")

	LoadEnv(envPath)
	if got := os.Getenv("SPOTIFY_CLIENT_SECRET"); got != "dotenv_secret" {
		t.Errorf("expected dotenv_secret, got %q", got)
	}

	// Missing files are silently ignored.
	LoadEnv(filepath.Join(tmpDir, "missing.env"))
}
