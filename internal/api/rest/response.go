package rest

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/hlog"

	"github.com/osa030/dashboard/internal/infra/spotify"
	"github.com/osa030/dashboard/internal/infra/upstream"
)

// errorBadGateway is reported for failures that carry no upstream status.
const errorBadGateway = "BadGateway"

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind, message string) {
	writeJSON(w, r, status, ErrorResponse{Error: kind, Message: message})
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps an error returned by an upstream client to a response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, spotify.ErrInvalidLimit) {
		writeError(w, r, http.StatusBadRequest, errWrongQueryParam, msgInvalidLimit)
		return
	}

	if se, ok := upstream.AsStatusError(err); ok {
		hlog.FromRequest(r).Warn().
			Err(err).
			Str("kind", se.Kind()).
			Int("upstream_status", se.Status()).
			Msg("Upstream call failed")
		writeError(w, r, http.StatusBadGateway, se.Kind(), se.Message())
		return
	}

	hlog.FromRequest(r).Error().Err(err).Msg("Upstream call failed")
	writeError(w, r, http.StatusBadGateway, errorBadGateway, err.Error())
}
