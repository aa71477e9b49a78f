package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osa030/dashboard/internal/domain/book"
	"github.com/osa030/dashboard/internal/infra/hardcover"
)

// BookService is the reading data needed by the /books routes.
type BookService interface {
	CurrentlyReading(ctx context.Context) (book.Book, bool, error)
}

// Ensure the Hardcover client implements the interface.
var _ BookService = (*hardcover.Client)(nil)

// BooksHandler serves the /books routes.
type BooksHandler struct {
	service BookService
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(service BookService) *BooksHandler {
	return &BooksHandler{service: service}
}

// Routes mounts the handler's endpoints on r.
func (h *BooksHandler) Routes(r chi.Router) {
	r.Get("/currently-reading", h.CurrentlyReading)
}

// CurrentlyReading handles GET /books/currently-reading.
func (h *BooksHandler) CurrentlyReading(w http.ResponseWriter, r *http.Request) {
	b, ok, err := h.service.CurrentlyReading(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !ok {
		writeNoContent(w)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}
