// Package geoapify fetches the static map image of the configured location.
package geoapify

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/osa030/dashboard/internal/infra/upstream"
)

const (
	serviceName        = "geoapify"
	defaultMapURL      = "https://maps.geoapify.com/v1/staticmap"
	defaultContentType = "image/png"
)

// Config represents static map configuration.
type Config struct {
	MapURL string
	APIKey string
	LonLat string
	Style  string
	Width  int
	Height int
	Zoom   float64
	Pitch  float64
}

// Client is a Geoapify static maps client.
type Client struct {
	httpClient *http.Client
	mapURL     string
}

// New creates a new Geoapify client. The map URL is built once since
// every parameter is fixed by configuration.
func New(httpClient *http.Client, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("geoapify api key is required")
	}
	if cfg.LonLat == "" {
		return nil, errors.New("geoapify lonlat is required")
	}
	if cfg.MapURL == "" {
		cfg.MapURL = defaultMapURL
	}

	base, err := url.Parse(cfg.MapURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid geoapify map url")
	}

	params := url.Values{}
	params.Set("style", cfg.Style)
	params.Set("width", strconv.Itoa(cfg.Width))
	params.Set("height", strconv.Itoa(cfg.Height))
	params.Set("center", "lonlat:"+cfg.LonLat)
	params.Set("zoom", strconv.FormatFloat(cfg.Zoom, 'f', -1, 64))
	params.Set("pitch", strconv.FormatFloat(cfg.Pitch, 'f', -1, 64))
	params.Set("apiKey", cfg.APIKey)
	base.RawQuery = params.Encode()

	return &Client{
		httpClient: httpClient,
		mapURL:     base.String(),
	}, nil
}

// LocationImage returns the rendered map and its content type.
func (c *Client) LocationImage(ctx context.Context) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.mapURL, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create request")
	}

	resp, err := upstream.Do(c.httpClient, serviceName, req)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to get location image")
	}
	if resp.NoContent() || len(resp.Body) == 0 {
		return nil, "", &upstream.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode, Body: "empty image"}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	return resp.Body, contentType, nil
}
