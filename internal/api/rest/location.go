package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/osa030/dashboard/internal/infra/geoapify"
)

// LocationService renders the map image of the configured location.
type LocationService interface {
	LocationImage(ctx context.Context) ([]byte, string, error)
}

// Ensure the Geoapify client implements the interface.
var _ LocationService = (*geoapify.Client)(nil)

// LocationHandler serves the /location routes.
type LocationHandler struct {
	service LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(service LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// Routes mounts the handler's endpoints on r.
func (h *LocationHandler) Routes(r chi.Router) {
	r.Get("/current-location-img", h.CurrentLocationImage)
}

// CurrentLocationImage handles GET /location/current-location-img.
func (h *LocationHandler) CurrentLocationImage(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.service.LocationImage(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("Failed to write image")
	}
}
