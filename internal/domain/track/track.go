// Package track provides the Track and TopArtist value records.
package track

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Resource kinds used in open.spotify.com URLs.
const (
	KindTrack  = "track"
	KindArtist = "artist"
)

const openURLBase = "https://open.spotify.com"

// Track represents a reshaped Spotify track.
// Playback fields are only set for the currently playing track.
type Track struct {
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	TrackURL   string   `json:"track_url"`
	IsPlaying  *bool    `json:"is_playing,omitempty"`
	AlbumName  string   `json:"album_name"`
	AlbumImage string   `json:"album_image"`
	DurationMs *int     `json:"duration_ms,omitempty"`
	ProgressMs *int     `json:"progress_ms,omitempty"`
}

// TopArtist represents an artist from the user's top artists.
type TopArtist struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Image string `json:"image"`
}

// ShareURL builds the open-web URL for a provider URI such as "spotify:track:abc123".
// The id is the last colon-delimited segment of the URI.
func ShareURL(kind, uri string) (string, error) {
	if strings.Count(uri, ":") < 2 {
		return "", errors.Newf("malformed spotify uri %q", uri)
	}
	id := uri[strings.LastIndex(uri, ":")+1:]
	if id == "" {
		return "", errors.Newf("malformed spotify uri %q", uri)
	}
	return fmt.Sprintf("%s/%s/%s", openURLBase, kind, id), nil
}
