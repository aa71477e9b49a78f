// Package config provides configuration loading from TOML or YAML files.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Deployment modes.
const (
	ModeDev  = "DEV"
	ModeProd = "PROD"

	// ModeEnv is the environment variable selecting the deployment mode.
	ModeEnv = "DEPLOYMENT_MODE"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	API       APIConfig       `mapstructure:"api"`
	Spotify   SpotifyConfig   `mapstructure:"spotify"`
	Hardcover HardcoverConfig `mapstructure:"hardcover"`
	Geoapify  GeoapifyConfig  `mapstructure:"geoapify"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" default:":8000"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"10s"`
	Hooks           HooksConfig   `mapstructure:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `mapstructure:"on_started"`
	OnStopped []string `mapstructure:"on_stopped"`
}

// HTTPConfig configures the shared upstream HTTP client.
type HTTPConfig struct {
	Timeout             time.Duration `mapstructure:"timeout" default:"10s" validate:"gt=0"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host" default:"10" validate:"gte=1"`
}

// APIConfig represents settings of the HTTP surface exposed to consumers.
type APIConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"required,min=1,dive,required"`
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID     string `mapstructure:"client_id" validate:"required"`
	ClientSecret string `mapstructure:"client_secret" validate:"required"`
	RefreshToken string `mapstructure:"refresh_token" validate:"required"`
	APIURL       string `mapstructure:"api_url" default:"https://api.spotify.com/v1" validate:"omitempty,url"`
	TokenURL     string `mapstructure:"token_url" default:"https://accounts.spotify.com/api/token" validate:"omitempty,url"`
}

// HardcoverConfig represents Hardcover GraphQL API configuration.
type HardcoverConfig struct {
	APIToken   string `mapstructure:"api_token" validate:"required"`
	UserID     int    `mapstructure:"user_id" validate:"required,gt=0"`
	GraphQLURL string `mapstructure:"graphql_url" default:"https://api.hardcover.app/v1/graphql" validate:"omitempty,url"`
}

// GeoapifyConfig represents Geoapify static map configuration.
type GeoapifyConfig struct {
	LonLat string  `mapstructure:"lonlat" validate:"required"`
	APIKey string  `mapstructure:"api_key" validate:"required"`
	MapURL string  `mapstructure:"map_url" default:"https://maps.geoapify.com/v1/staticmap" validate:"omitempty,url"`
	Style  string  `mapstructure:"style" default:"osm-liberty"`
	Width  int     `mapstructure:"width" default:"600" validate:"gt=0"`
	Height int     `mapstructure:"height" default:"600" validate:"gt=0"`
	Zoom   float64 `mapstructure:"zoom" default:"16.5" validate:"gt=0"`
	Pitch  float64 `mapstructure:"pitch" default:"43" validate:"gte=0,lte=60"`
}

// PathForMode returns the config file for the given deployment mode inside dir.
// An empty mode selects ModeDev.
func PathForMode(dir, mode string) (string, error) {
	switch strings.ToUpper(mode) {
	case ModeDev, "":
		return filepath.Join(dir, "config.dev.toml"), nil
	case ModeProd:
		return filepath.Join(dir, "config.prod.toml"), nil
	default:
		return "", errors.Newf("unknown deployment mode %q (expected %s or %s)", mode, ModeDev, ModeProd)
	}
}

// Load loads configuration from a TOML or YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	raw, err := parse(path, data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	var cfg Config
	if err := decode(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config file")
	}

	// Override with environment variables
	if err := cfg.overrideFromEnv(); err != nil {
		return nil, err
	}

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// parse reads the file contents into a generic map, picking the format by extension.
func parse(path string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Newf("unsupported config format %q", filepath.Ext(path))
	}
	return raw, nil
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() error {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("HARDCOVER_API_TOKEN"); v != "" {
		c.Hardcover.APIToken = v
	}
	if v := os.Getenv("HARDCOVER_USER_ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "invalid HARDCOVER_USER_ID")
		}
		c.Hardcover.UserID = id
	}
	if v := os.Getenv("GEOAPIFY_API_KEY"); v != "" {
		c.Geoapify.APIKey = v
	}
	if v := os.Getenv("GEOAPIFY_LONLAT"); v != "" {
		c.Geoapify.LonLat = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
