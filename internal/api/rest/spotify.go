package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osa030/dashboard/internal/domain/track"
	"github.com/osa030/dashboard/internal/infra/spotify"
)

const (
	topTypeArtists = "artists"
	topTypeTracks  = "tracks"

	errWrongPathParam  = "wrong path parameter"
	errWrongQueryParam = "wrong query parameter"

	msgInvalidTopType = "path parameter `type` must be one of `artists` or `tracks`"
	msgInvalidLimit   = "query parameter `limit` must be an integer between 1 and 50"
)

// SpotifyService is the listening data needed by the /spotify routes.
type SpotifyService interface {
	CurrentlyPlaying(ctx context.Context) (track.Track, bool, error)
	LastPlayed(ctx context.Context) (track.Track, bool, error)
	TopTracks(ctx context.Context, limit int) ([]track.Track, bool, error)
	TopArtists(ctx context.Context, limit int) ([]track.TopArtist, bool, error)
}

// Ensure the Spotify client implements the interface.
var _ SpotifyService = (*spotify.Client)(nil)

// SpotifyHandler serves the /spotify routes.
type SpotifyHandler struct {
	service SpotifyService
}

// NewSpotifyHandler creates a new SpotifyHandler.
func NewSpotifyHandler(service SpotifyService) *SpotifyHandler {
	return &SpotifyHandler{service: service}
}

// Routes mounts the handler's endpoints on r.
func (h *SpotifyHandler) Routes(r chi.Router) {
	r.Get("/currently-playing", h.CurrentlyPlaying)
	r.Get("/last-played", h.LastPlayed)
	r.Get("/top-{type}", h.Top)
}

// CurrentlyPlaying handles GET /spotify/currently-playing.
func (h *SpotifyHandler) CurrentlyPlaying(w http.ResponseWriter, r *http.Request) {
	t, ok, err := h.service.CurrentlyPlaying(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeNoContent(w)
		return
	}
	writeJSON(w, r, http.StatusOK, t)
}

// LastPlayed handles GET /spotify/last-played.
func (h *SpotifyHandler) LastPlayed(w http.ResponseWriter, r *http.Request) {
	t, ok, err := h.service.LastPlayed(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeNoContent(w)
		return
	}
	writeJSON(w, r, http.StatusOK, t)
}

// Top handles GET /spotify/top-{type}.
func (h *SpotifyHandler) Top(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "type")
	if kind != topTypeArtists && kind != topTypeTracks {
		writeError(w, r, http.StatusBadRequest, errWrongPathParam, msgInvalidTopType)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errWrongQueryParam, msgInvalidLimit)
		return
	}

	var (
		items any
		ok    bool
	)
	switch kind {
	case topTypeArtists:
		items, ok, err = h.service.TopArtists(r.Context(), limit)
	case topTypeTracks:
		items, ok, err = h.service.TopTracks(r.Context(), limit)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeNoContent(w)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

// parseLimit reads the limit query parameter, defaulting to spotify.DefaultLimit.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return spotify.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if err := spotify.ValidateLimit(limit); err != nil {
		return 0, err
	}
	return limit, nil
}
