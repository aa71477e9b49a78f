package spotify

// Response shapes of the Spotify Web API, reduced to the fields we map.
// Reference: https://developer.spotify.com/documentation/web-api/reference/

type image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type artistRef struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type album struct {
	Name   string  `json:"name"`
	Images []image `json:"images"`
}

type trackObject struct {
	Name       string      `json:"name"`
	URI        string      `json:"uri"`
	DurationMs int         `json:"duration_ms"`
	Album      album       `json:"album"`
	Artists    []artistRef `json:"artists"`
}

type artistObject struct {
	Name   string  `json:"name"`
	URI    string  `json:"uri"`
	Images []image `json:"images"`
}

// currentlyPlayingResponse is the body of GET /me/player/currently-playing.
type currentlyPlayingResponse struct {
	IsPlaying  bool         `json:"is_playing"`
	ProgressMs *int         `json:"progress_ms"`
	Item       *trackObject `json:"item"`
}

// recentlyPlayedResponse is the body of GET /me/player/recently-played.
type recentlyPlayedResponse struct {
	Items []struct {
		Track    trackObject `json:"track"`
		PlayedAt string      `json:"played_at"`
	} `json:"items"`
}

// topTracksResponse is the body of GET /me/top/tracks.
type topTracksResponse struct {
	Items []trackObject `json:"items"`
}

// topArtistsResponse is the body of GET /me/top/artists.
type topArtistsResponse struct {
	Items []artistObject `json:"items"`
}
