// Package spotify provides a client for the Spotify Web API.
package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/osa030/dashboard/internal/domain/track"
	"github.com/osa030/dashboard/internal/infra/oauth"
	"github.com/osa030/dashboard/internal/infra/upstream"
)

const (
	serviceName   = "spotify"
	defaultAPIURL = "https://api.spotify.com/v1"

	// recentLimit is how many recently played items are requested; only the first is used.
	recentLimit = 5
	// shortTerm is Spotify's roughly four week window for top items.
	shortTerm = "short_term"
)

// Limits accepted by the top items endpoints.
const (
	MinLimit     = 1
	MaxLimit     = 50
	DefaultLimit = 10
)

// ErrInvalidLimit is returned before any request when a limit is outside [MinLimit, MaxLimit].
var ErrInvalidLimit = errors.New("limit must be between 1 and 50")

// Client is a Spotify API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     *oauth.RefreshSource
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	APIURL       string
	TokenURL     string
}

// New creates a new Spotify client on top of the shared httpClient.
func New(httpClient *http.Client, cfg Config) (*Client, error) {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = spotifyauth.TokenURL
	}

	tokens, err := oauth.NewRefreshSource(serviceName, cfg.TokenURL, oauth.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
	}, httpClient)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.APIURL,
		tokens:     tokens,
	}, nil
}

// CurrentlyPlaying returns the track playing right now.
// ok is false when nothing is playing.
func (c *Client) CurrentlyPlaying(ctx context.Context) (track.Track, bool, error) {
	var resp currentlyPlayingResponse
	found, err := c.get(ctx, "/me/player/currently-playing", nil, &resp)
	if err != nil {
		return track.Track{}, false, errors.Wrap(err, "failed to get currently playing track")
	}
	// item is null while an ad or an episode is playing
	if !found || resp.Item == nil {
		return track.Track{}, false, nil
	}

	t, err := convertTrack(*resp.Item)
	if err != nil {
		return track.Track{}, false, errors.Wrap(err, "failed to convert currently playing track")
	}

	isPlaying := resp.IsPlaying
	duration := resp.Item.DurationMs
	t.IsPlaying = &isPlaying
	t.DurationMs = &duration
	t.ProgressMs = resp.ProgressMs

	return t, true, nil
}

// LastPlayed returns the most recently played track without playback fields.
// ok is false when the history is empty.
func (c *Client) LastPlayed(ctx context.Context) (track.Track, bool, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(recentLimit))

	var resp recentlyPlayedResponse
	found, err := c.get(ctx, "/me/player/recently-played", params, &resp)
	if err != nil {
		return track.Track{}, false, errors.Wrap(err, "failed to get recently played tracks")
	}
	if !found || len(resp.Items) == 0 {
		return track.Track{}, false, nil
	}

	t, err := convertTrack(resp.Items[0].Track)
	if err != nil {
		return track.Track{}, false, errors.Wrap(err, "failed to convert last played track")
	}
	return t, true, nil
}

// TopTracks returns the user's top tracks of the last four weeks.
// ok is false when Spotify answers 204.
func (c *Client) TopTracks(ctx context.Context, limit int) ([]track.Track, bool, error) {
	if err := ValidateLimit(limit); err != nil {
		return nil, false, err
	}

	var resp topTracksResponse
	found, err := c.get(ctx, "/me/top/tracks", topParams(limit), &resp)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get top tracks")
	}
	if !found {
		return nil, false, nil
	}

	tracks := make([]track.Track, 0, len(resp.Items))
	for i, item := range resp.Items {
		t, err := convertTrack(item)
		if err != nil {
			return nil, false, errors.Wrapf(err, "failed to convert top track %d", i)
		}
		tracks = append(tracks, t)
	}
	return tracks, true, nil
}

// TopArtists returns the user's top artists of the last four weeks.
// ok is false when Spotify answers 204.
func (c *Client) TopArtists(ctx context.Context, limit int) ([]track.TopArtist, bool, error) {
	if err := ValidateLimit(limit); err != nil {
		return nil, false, err
	}

	var resp topArtistsResponse
	found, err := c.get(ctx, "/me/top/artists", topParams(limit), &resp)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get top artists")
	}
	if !found {
		return nil, false, nil
	}

	artists := make([]track.TopArtist, 0, len(resp.Items))
	for i, item := range resp.Items {
		a, err := convertArtist(item)
		if err != nil {
			return nil, false, errors.Wrapf(err, "failed to convert top artist %d", i)
		}
		artists = append(artists, a)
	}
	return artists, true, nil
}

// ValidateLimit checks that limit is within [MinLimit, MaxLimit].
func ValidateLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return errors.Wrapf(ErrInvalidLimit, "got %d", limit)
	}
	return nil
}

func topParams(limit int) url.Values {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("time_range", shortTerm)
	return params
}

// get ensures a valid token, issues one GET and decodes a 200 body into out.
// It reports false on 204.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (bool, error) {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return false, err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, errors.Wrap(err, "failed to create request")
	}
	tok.SetAuthHeader(req)

	resp, err := upstream.Do(c.httpClient, serviceName, req)
	if err != nil {
		return false, err
	}
	if resp.NoContent() {
		return false, nil
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return false, errors.Wrap(err, "failed to parse response")
	}
	return true, nil
}

// convertTrack converts a Spotify track object to a domain Track.
func convertTrack(t trackObject) (track.Track, error) {
	trackURL, err := track.ShareURL(track.KindTrack, t.URI)
	if err != nil {
		return track.Track{}, err
	}
	if len(t.Album.Images) == 0 {
		return track.Track{}, errors.Newf("album of track %q has no images", t.Name)
	}

	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	return track.Track{
		Name:       t.Name,
		Artists:    artists,
		TrackURL:   trackURL,
		AlbumName:  t.Album.Name,
		AlbumImage: t.Album.Images[0].URL,
	}, nil
}

// convertArtist converts a Spotify artist object to a domain TopArtist.
func convertArtist(a artistObject) (track.TopArtist, error) {
	artistURL, err := track.ShareURL(track.KindArtist, a.URI)
	if err != nil {
		return track.TopArtist{}, err
	}
	if len(a.Images) == 0 {
		return track.TopArtist{}, errors.Newf("artist %q has no images", a.Name)
	}

	return track.TopArtist{
		Name:  a.Name,
		URL:   artistURL,
		Image: a.Images[0].URL,
	}, nil
}
