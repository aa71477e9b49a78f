package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/creasty/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devTOML = `
[server]
addr = ":9000"
hooks.on_started = ["echo started"]

[api]
allowed_origins = ["http://localhost:3000", "https://example.com"]

[spotify]
client_id = "test-client-id"
client_secret = "test-client-secret"
refresh_token = "test-refresh-token"

[hardcover]
api_token = "test-hardcover-token"
user_id = 42

[geoapify]
lonlat = "13.4,52.5"
api_key = "test-geo-key"
zoom = 15
`

const prodYAML = `
server:
  shutdown_timeout: 3s
http:
  timeout: 2s
api:
  allowed_origins:
    - https://example.com
spotify:
  client_id: yaml-client-id
  client_secret: yaml-client-secret
  refresh_token: yaml-refresh-token
hardcover:
  api_token: yaml-hardcover-token
  user_id: 7
geoapify:
  lonlat: "1.0,2.0"
  api_key: yaml-geo-key
`

// clearEnv makes sure overrides from the host environment do not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "SPOTIFY_REFRESH_TOKEN",
		"HARDCOVER_API_TOKEN", "HARDCOVER_USER_ID",
		"GEOAPIFY_API_KEY", "GEOAPIFY_LONLAT",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func validConfig(t *testing.T) Config {
	t.Helper()
	cfg := Config{
		API: APIConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Spotify: SpotifyConfig{
			ClientID:     "test-client-id",
			ClientSecret: "test-client-secret",
			RefreshToken: "test-refresh-token",
		},
		Hardcover: HardcoverConfig{APIToken: "token", UserID: 1},
		Geoapify:  GeoapifyConfig{LonLat: "1,2", APIKey: "key"},
	}
	require.NoError(t, defaults.Set(&cfg))
	return cfg
}

func TestLoad_TOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.dev.toml", devTOML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"echo started"}, cfg.Server.Hooks.OnStarted)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.API.AllowedOrigins)
	assert.Equal(t, "test-client-id", cfg.Spotify.ClientID)
	assert.Equal(t, "https://accounts.spotify.com/api/token", cfg.Spotify.TokenURL)
	assert.Equal(t, "https://api.spotify.com/v1", cfg.Spotify.APIURL)
	assert.Equal(t, 42, cfg.Hardcover.UserID)
	assert.Equal(t, "https://api.hardcover.app/v1/graphql", cfg.Hardcover.GraphQLURL)
	assert.Equal(t, 15.0, cfg.Geoapify.Zoom)
	assert.Equal(t, 43.0, cfg.Geoapify.Pitch)
	assert.Equal(t, 600, cfg.Geoapify.Width)
	assert.Equal(t, "osm-liberty", cfg.Geoapify.Style)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", prodYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "yaml-client-id", cfg.Spotify.ClientID)
	assert.Equal(t, 7, cfg.Hardcover.UserID)
	assert.Equal(t, 16.5, cfg.Geoapify.Zoom)
}

func TestLoad_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("SPOTIFY_REFRESH_TOKEN", "env-refresh-token")
	t.Setenv("HARDCOVER_USER_ID", "99")
	t.Setenv("GEOAPIFY_API_KEY", "env-geo-key")
	path := writeFile(t, "config.dev.toml", devTOML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-refresh-token", cfg.Spotify.RefreshToken)
	assert.Equal(t, 99, cfg.Hardcover.UserID)
	assert.Equal(t, "env-geo-key", cfg.Geoapify.APIKey)
	assert.Equal(t, "test-client-id", cfg.Spotify.ClientID)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(writeFile(t, "config.json", "{}"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config format")
	})

	t.Run("broken toml", func(t *testing.T) {
		_, err := Load(writeFile(t, "config.toml", "[spotify\nclient_id="))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("invalid user id from env", func(t *testing.T) {
		t.Setenv("HARDCOVER_USER_ID", "abc")
		_, err := Load(writeFile(t, "config.toml", devTOML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HARDCOVER_USER_ID")
	})

	t.Run("missing required section", func(t *testing.T) {
		_, err := Load(writeFile(t, "config.toml", "[api]\nallowed_origins = [\"*\"]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})
}

func TestPathForMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		expected string
		wantErr  bool
	}{
		{name: "dev", mode: "DEV", expected: filepath.Join("conf", "config.dev.toml")},
		{name: "lowercase prod", mode: "prod", expected: filepath.Join("conf", "config.prod.toml")},
		{name: "empty defaults to dev", mode: "", expected: filepath.Join("conf", "config.dev.toml")},
		{name: "unknown mode", mode: "STAGING", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := PathForMode("conf", tt.mode)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestConfig_Validate_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing spotify client id",
			mutate:  func(c *Config) { c.Spotify.ClientID = "" },
			wantErr: true,
			errMsg:  "ClientID",
		},
		{
			name:    "missing spotify refresh token",
			mutate:  func(c *Config) { c.Spotify.RefreshToken = "" },
			wantErr: true,
			errMsg:  "RefreshToken",
		},
		{
			name:    "missing hardcover user id",
			mutate:  func(c *Config) { c.Hardcover.UserID = 0 },
			wantErr: true,
			errMsg:  "UserID",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.API.AllowedOrigins = nil },
			wantErr: true,
			errMsg:  "AllowedOrigins",
		},
		{
			name:    "invalid token url",
			mutate:  func(c *Config) { c.Spotify.TokenURL = "not a url" },
			wantErr: true,
			errMsg:  "TokenURL",
		},
		{
			name:    "pitch out of range",
			mutate:  func(c *Config) { c.Geoapify.Pitch = 90 },
			wantErr: true,
			errMsg:  "Pitch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}
