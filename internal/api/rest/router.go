// Package rest provides the HTTP JSON surface of the dashboard backend.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RouterConfig represents settings of the HTTP surface.
type RouterConfig struct {
	AllowedOrigins []string
}

// Services bundles the upstream clients the routes read from.
type Services struct {
	Spotify  SpotifyService
	Books    BookService
	Location LocationService
}

// NewRouter builds the chi router with middleware and every route mounted.
func NewRouter(cfg RouterConfig, services Services, logger zerolog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(requestID)
	r.Use(accessLog())
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthcheck", handleHealthcheck)
	r.Route("/spotify", NewSpotifyHandler(services.Spotify).Routes)
	r.Route("/books", NewBooksHandler(services.Books).Routes)
	r.Route("/location", NewLocationHandler(services.Location).Routes)

	return r
}
