package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns the storefront booking router
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)

	return r
}

// AdminRoutes returns the admin booking router
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Patch("/{id}/payment", h.UpdatePayment)

	return r
}
